package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	Minio           MinioConfig           `mapstructure:"minio"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Convert         ConvertConfig         `mapstructure:"convert"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	Webhook         WebhookConfig         `mapstructure:"webhook"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 拼接MySQL连接串
func (c DatabaseConfig) DSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	loc := c.Loc
	if loc == "" {
		loc = "Local"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset, c.ParseTime, loc)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// GetRedisAddr 拼接Redis地址
func (c RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	BootstrapServers []string `mapstructure:"bootstrap_servers"`
	ClientID         string   `mapstructure:"client_id"`
	EventsTopic      string   `mapstructure:"events_topic"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
}

// ConvertConfig 媒体转换配置
type ConvertConfig struct {
	FFmpeg FFmpegConfig `mapstructure:"ffmpeg"`
}

// FFmpegConfig FFmpeg相关配置
type FFmpegConfig struct {
	BinaryPath  string        `mapstructure:"binary_path"`
	ProbePath   string        `mapstructure:"probe_path"`
	TempDir     string        `mapstructure:"temp_dir"`
	Timeout     time.Duration `mapstructure:"timeout"`
	VideoCodec  string        `mapstructure:"video_codec"`
	VideoPreset string        `mapstructure:"video_preset"`
	Threads     int           `mapstructure:"threads"`
}

// QueueConfig 单个队列的消费参数
type QueueConfig struct {
	Name           string        `mapstructure:"name"`
	MaxParallelism int           `mapstructure:"max_parallelism"`
	EmptyDelay     time.Duration `mapstructure:"empty_delay"`
	ErrorDelay     time.Duration `mapstructure:"error_delay"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
}

// WorkerConfig Worker相关配置
type WorkerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	WorkerID       string        `mapstructure:"worker_id"`
	ConsumerGroup  string        `mapstructure:"consumer_group"`
	ReclaimMinIdle time.Duration `mapstructure:"reclaim_min_idle"`
	Metadata       QueueConfig   `mapstructure:"metadata"`
	Convert        QueueConfig   `mapstructure:"convert"`
	Webhook        QueueConfig   `mapstructure:"webhook"`
}

// WebhookConfig webhook投递配置
type WebhookConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ServiceRegistryConfig etcd服务注册配置
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("service_registry.service_name", "convert-service")
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.client_id", "convert-service")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.events_topic", "media.events")
	viper.SetDefault("worker.consumer_group", "convert-service")
	viper.SetDefault("worker.metadata.name", "media.metadata")
	viper.SetDefault("worker.convert.name", "media.convert")
	viper.SetDefault("worker.webhook.name", "webhook.deliveries")

	// 设置环境变量前缀
	viper.SetEnvPrefix("CONVERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Convert.FFmpeg.BinaryPath == "" {
		c.Convert.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Convert.FFmpeg.ProbePath == "" {
		c.Convert.FFmpeg.ProbePath = "ffprobe"
	}
	if c.Convert.FFmpeg.TempDir == "" {
		c.Convert.FFmpeg.TempDir = "/tmp/convert"
	}
	if c.Convert.FFmpeg.Timeout == 0 {
		c.Convert.FFmpeg.Timeout = time.Hour
	}
	if c.Convert.FFmpeg.VideoCodec == "" {
		c.Convert.FFmpeg.VideoCodec = "libx264"
	}
	if c.Convert.FFmpeg.VideoPreset == "" {
		c.Convert.FFmpeg.VideoPreset = "medium"
	}

	normalizeQueue(&c.Worker.Metadata, "media.metadata")
	normalizeQueue(&c.Worker.Convert, "media.convert")
	normalizeQueue(&c.Worker.Webhook, "webhook.deliveries")
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "convert-service"
	}
	if c.Worker.ReclaimMinIdle <= 0 {
		c.Worker.ReclaimMinIdle = time.Minute
	}

	if c.Webhook.RequestTimeout == 0 {
		c.Webhook.RequestTimeout = 15 * time.Second
	}

	if c.ServiceRegistry.DialTimeout == 0 {
		c.ServiceRegistry.DialTimeout = 5 * time.Second
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}
}

func normalizeQueue(q *QueueConfig, name string) {
	if q.Name == "" {
		q.Name = name
	}
	if q.MaxParallelism <= 0 {
		q.MaxParallelism = 2
	}
	if q.EmptyDelay <= 0 {
		q.EmptyDelay = time.Second
	}
	if q.ErrorDelay <= 0 {
		q.ErrorDelay = 5 * time.Second
	}
	// MaxAttempts == 0 means retry without a ceiling.
}

var globalConfig *Config

// SetGlobalConfig 设置全局配置
func SetGlobalConfig(cfg *Config) {
	globalConfig = cfg
}

// GetGlobalConfig 获取全局配置
func GetGlobalConfig() *Config {
	return globalConfig
}
