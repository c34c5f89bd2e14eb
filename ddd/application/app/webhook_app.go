package app

import (
	"context"

	"convert-service/ddd/application/cqe"
	"convert-service/ddd/application/dto"
	"convert-service/ddd/domain/service"
)

// WebhookApp 回调订阅用例编排
type WebhookApp interface {
	// UpsertSubscription 注册或更新用户的回调订阅
	UpsertSubscription(ctx context.Context, req *cqe.UpsertWebhookCqe) (*dto.WebhookSubscriptionDTO, error)
	// GetSubscription 查询用户的回调订阅
	GetSubscription(ctx context.Context, userUUID string) (*dto.WebhookSubscriptionDTO, error)
}

type webhookAppImpl struct {
	webhookService service.WebhookService
}

// NewWebhookApp 创建回调应用服务
func NewWebhookApp(webhookService service.WebhookService) WebhookApp {
	return &webhookAppImpl{webhookService: webhookService}
}

func (a *webhookAppImpl) UpsertSubscription(ctx context.Context, req *cqe.UpsertWebhookCqe) (*dto.WebhookSubscriptionDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sub, err := a.webhookService.UpsertSubscription(ctx, req.UserUUID, req.CallbackURL, req.Events)
	if err != nil {
		return nil, err
	}
	return dto.FromWebhookSubscription(sub), nil
}

func (a *webhookAppImpl) GetSubscription(ctx context.Context, userUUID string) (*dto.WebhookSubscriptionDTO, error) {
	sub, err := a.webhookService.GetSubscription(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	return dto.FromWebhookSubscription(sub), nil
}
