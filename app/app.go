package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appservice "convert-service/ddd/application/app"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/service"
	"convert-service/ddd/infrastructure/events"
	"convert-service/ddd/infrastructure/executor"
	"convert-service/ddd/infrastructure/queue"
	"convert-service/ddd/infrastructure/storage"
	"convert-service/ddd/infrastructure/webhook"
	"convert-service/internal/resource"
	"convert-service/pkg/config"
	"convert-service/pkg/kafka"
	"convert-service/pkg/logger"
	"convert-service/pkg/manager"
	"convert-service/pkg/middleware"
	"convert-service/pkg/registry"

	// 导入适配器包以触发init阶段的插件注册
	_ "convert-service/ddd/adapter/component"
	_ "convert-service/ddd/adapter/http"

	"convert-service/ddd/infrastructure/database/persistence"
)

// Run 启动HTTP服务进程；worker.enabled时消费循环也在本进程内运行
func Run() {
	fmt.Println("[STARTUP] Starting convert service...")

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)

	logger.Infof("Convert service starting version=%s", "1.0.0")

	checkFFmpeg(cfg)

	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	deps := wireDependencies(cfg)

	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	logger.Infof("Creating HTTP routes...")
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	router.Use(middleware.RequestContextMiddleware())
	router.Use(middleware.AuthMiddleware(cfg.JWT))

	manager.MustInitControllers(deps)
	manager.RegisterAllRoutes(router)
	logger.Infof("Routes registered")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started address=%s health_url=http://localhost:%d/health", addr, cfg.Server.Port)

	svcRegistry := registerService(cfg, addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if svcRegistry != nil {
		_ = svcRegistry.Deregister()
	}

	logger.Infof("Shutting down components...")
	manager.Shutdown()
	logger.Infof("Components closed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")
	if logService != nil {
		logService.Close()
	}
	fmt.Println("[SHUTDOWN] Convert service exited safely")
}

// RunWorker 启动纯消费进程：只有队列循环，没有HTTP接口
func RunWorker() {
	fmt.Println("[STARTUP] Starting convert worker...")

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// worker进程无条件消费
	cfg.Worker.Enabled = true
	config.SetGlobalConfig(cfg)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)

	logger.Infof("Convert worker starting worker_id=%s", cfg.Worker.WorkerID)

	checkFFmpeg(cfg)

	manager.MustInitResources()
	defer manager.CloseResources()

	deps := wireDependencies(cfg)
	manager.MustInitComponents(deps)

	svcRegistry := registerService(cfg, "worker://"+cfg.Worker.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down worker...")
	if svcRegistry != nil {
		_ = svcRegistry.Deregister()
	}
	manager.Shutdown()

	logger.Infof("Worker exited safely")
	if logService != nil {
		logService.Close()
	}
	fmt.Println("[SHUTDOWN] Convert worker exited safely")
}

// wireDependencies 装配仓储、网关与服务，进程启动时执行一次
func wireDependencies(cfg *config.Config) *manager.Dependencies {
	db := resource.DefaultMysqlResource().MainDB()

	rawRepo := persistence.NewRawMediaRepository(db)
	convRepo := persistence.NewConvertedMediaRepository(db)
	webhookRepo := persistence.NewWebhookSubscriptionRepository(db)

	workerID := cfg.Worker.WorkerID
	if workerID == "" {
		host, _ := os.Hostname()
		workerID = fmt.Sprintf("%s-%s", host, uuid.New().String()[:8])
		cfg.Worker.WorkerID = workerID
	}
	transport := queue.NewRedisStreamTransport(
		resource.DefaultRedisResource().Client(), cfg.Worker.ConsumerGroup, workerID, cfg.Worker.ReclaimMinIdle)

	store := storage.NewMinioStorage(resource.DefaultMinioResource(), cfg.Public.StorageBase)
	processor := executor.NewFFmpegProcessor(cfg.Convert.FFmpeg, store)

	var publisher gateway.EventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(kafka.DefaultClient(), cfg.Kafka.EventsTopic)
	}

	notifier := service.NewNotifier(transport, cfg.Worker.Webhook.Name)
	webhookSvc := service.NewWebhookService(webhookRepo, webhook.NewHTTPSender(cfg.Webhook.RequestTimeout))
	convertSvc := service.NewConvertService(rawRepo, convRepo, store, processor, notifier, publisher)
	metadataSvc := service.NewMetadataService(rawRepo, processor, publisher)
	mediaSvc := service.NewMediaService(rawRepo, convRepo, store, transport, service.Queues{
		Metadata: cfg.Worker.Metadata.Name,
		Convert:  cfg.Worker.Convert.Name,
		Webhook:  cfg.Worker.Webhook.Name,
	})

	return &manager.Dependencies{
		DB:                db,
		Config:            cfg,
		MediaAppService:   appservice.NewMediaApp(mediaSvc),
		WebhookAppService: appservice.NewWebhookApp(webhookSvc),
		ConvertService:    convertSvc,
		MetadataService:   metadataSvc,
		WebhookService:    webhookSvc,
		QueueTransport:    transport,
	}
}

// registerService 注册到etcd；未启用时返回nil
func registerService(cfg *config.Config, serviceAddr string) *registry.ServiceRegistry {
	if !cfg.ServiceRegistry.Enabled {
		return nil
	}
	r, err := registry.NewServiceRegistry(cfg.ServiceRegistry, serviceAddr)
	if err != nil {
		logger.Errorf("service registry connect failed error=%s", err.Error())
		return nil
	}
	if err := r.Register(); err != nil {
		logger.Errorf("service registry register failed error=%s", err.Error())
		return nil
	}
	logger.Infof("service registered name=%s addr=%s", cfg.ServiceRegistry.ServiceName, serviceAddr)
	return r
}

// checkFFmpeg 启动阶段验证ffmpeg/ffprobe可用
func checkFFmpeg(cfg *config.Config) {
	ffmpegBin := cfg.Convert.FFmpeg.BinaryPath
	if strings.TrimSpace(ffmpegBin) == "" {
		ffmpegBin = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set convert.ffmpeg.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}
	probeBin := cfg.Convert.FFmpeg.ProbePath
	if strings.TrimSpace(probeBin) == "" {
		probeBin = "ffprobe"
	}
	if _, err := exec.LookPath(probeBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFprobe binary not found, please install or set convert.ffmpeg.probe_path binary=%s error=%s", probeBin, err.Error()))
	}
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
