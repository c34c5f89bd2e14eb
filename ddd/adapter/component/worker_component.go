package component

import (
	"context"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/service"
	"convert-service/ddd/infrastructure/worker"
	"convert-service/pkg/config"
	"convert-service/pkg/logger"
	"convert-service/pkg/manager"
	"convert-service/pkg/task"
)

func init() {
	manager.RegisterComponentPlugin(&WorkerPlugin{})
}

// WorkerPlugin worker组件注册插件
type WorkerPlugin struct{}

func (p *WorkerPlugin) Name() string { return "worker" }

func (p *WorkerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	c := &WorkerComponent{cfg: cfg}
	if !cfg.Worker.Enabled {
		return c
	}

	transport := deps.QueueTransport.(gateway.QueueTransport)
	convertSvc := deps.ConvertService.(service.ConvertService)
	metadataSvc := deps.MetadataService.(service.MetadataService)
	webhookSvc := deps.WebhookService.(service.WebhookService)

	c.loops = []task.BackgroundTask{
		worker.NewLoop("metadata-worker", transport,
			func(ctx context.Context, job entity.MetadataJob) error {
				return metadataSvc.FillMetadata(ctx, job.RawMediaUUID)
			},
			loopOptions(cfg.Worker.Metadata)),
		worker.NewLoop("convert-worker", transport,
			func(ctx context.Context, job entity.ConvertJob) error {
				return convertSvc.Convert(ctx, job.RawMediaUUID)
			},
			loopOptions(cfg.Worker.Convert)),
		worker.NewLoop("webhook-worker", transport,
			func(ctx context.Context, event entity.WebhookEvent) error {
				return webhookSvc.Deliver(ctx, &event)
			},
			loopOptions(cfg.Worker.Webhook)),
	}
	return c
}

func loopOptions(q config.QueueConfig) worker.Options {
	return worker.Options{
		Queue:          q.Name,
		MaxParallelism: q.MaxParallelism,
		EmptyDelay:     q.EmptyDelay,
		ErrorDelay:     q.ErrorDelay,
		MaxAttempts:    q.MaxAttempts,
	}
}

// WorkerComponent 托管全部消费循环的后台组件
type WorkerComponent struct {
	cfg    *config.Config
	loops  []task.BackgroundTask
	cancel context.CancelFunc
}

func (c *WorkerComponent) GetName() string { return "worker" }

func (c *WorkerComponent) Start() error {
	if len(c.loops) == 0 {
		logger.Info("worker disabled, no consume loops started", nil)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	for _, l := range c.loops {
		if err := l.Start(ctx); err != nil {
			cancel()
			return err
		}
	}
	return nil
}

func (c *WorkerComponent) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		_ = c.loops[i].Stop()
	}
	return nil
}
