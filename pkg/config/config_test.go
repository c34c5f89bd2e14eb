package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 3306
  username: root
  database: convert
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "ffmpeg", cfg.Convert.FFmpeg.BinaryPath)
	require.Equal(t, "ffprobe", cfg.Convert.FFmpeg.ProbePath)
	require.Equal(t, "libx264", cfg.Convert.FFmpeg.VideoCodec)
	require.Equal(t, time.Hour, cfg.Convert.FFmpeg.Timeout)

	require.Equal(t, "media.metadata", cfg.Worker.Metadata.Name)
	require.Equal(t, "media.convert", cfg.Worker.Convert.Name)
	require.Equal(t, "webhook.deliveries", cfg.Worker.Webhook.Name)
	require.Equal(t, 2, cfg.Worker.Convert.MaxParallelism)
	require.Equal(t, time.Second, cfg.Worker.Convert.EmptyDelay)
	require.Equal(t, 5*time.Second, cfg.Worker.Convert.ErrorDelay)
	require.Zero(t, cfg.Worker.Convert.MaxAttempts)
	require.Equal(t, "convert-service", cfg.Worker.ConsumerGroup)
	require.Equal(t, time.Minute, cfg.Worker.ReclaimMinIdle)

	require.Equal(t, 15*time.Second, cfg.Webhook.RequestTimeout)
	require.False(t, cfg.Kafka.Enabled)
	require.False(t, cfg.ServiceRegistry.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
worker:
  enabled: true
  consumer_group: workers
  convert:
    name: media.convert.custom
    max_parallelism: 4
    max_attempts: 5
webhook:
  request_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Worker.Enabled)
	require.Equal(t, "workers", cfg.Worker.ConsumerGroup)
	require.Equal(t, "media.convert.custom", cfg.Worker.Convert.Name)
	require.Equal(t, 4, cfg.Worker.Convert.MaxParallelism)
	require.Equal(t, 5, cfg.Worker.Convert.MaxAttempts)
	require.Equal(t, 3*time.Second, cfg.Webhook.RequestTimeout)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:      "db.local",
		Port:      3306,
		Username:  "root",
		Password:  "secret",
		Database:  "convert",
		ParseTime: true,
	}
	require.Equal(t,
		"root:secret@tcp(db.local:3306)/convert?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DSN())
}

func TestMinioCredentialFallback(t *testing.T) {
	path := writeConfigFile(t, `
minio:
  endpoint: localhost:9000
  access_key: legacy-ak
  secret_key: legacy-sk
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "legacy-ak", cfg.Minio.AccessKeyID)
	require.Equal(t, "legacy-sk", cfg.Minio.SecretAccessKey)
}
