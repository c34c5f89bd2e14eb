package service

import (
	"context"
	"encoding/json"
	"net/url"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/repo"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// Notifier 把事件序列化后丢进webhook投递队列，绝不做网络IO。
type Notifier interface {
	Enqueue(ctx context.Context, event *entity.WebhookEvent) error
}

type queueNotifier struct {
	transport gateway.QueueTransport
	queue     string
}

// NewNotifier 创建基于队列的通知器
func NewNotifier(transport gateway.QueueTransport, queue string) Notifier {
	return &queueNotifier{transport: transport, queue: queue}
}

func (n *queueNotifier) Enqueue(ctx context.Context, event *entity.WebhookEvent) error {
	return gateway.EnqueueJSON(ctx, n.transport, n.queue, event)
}

// WebhookService webhook订阅管理 + 投递处理。
// Deliver 由投递worker调用：解析订阅、按事件过滤、执行POST。
// 未知订阅者是永久失败：重试不会让陌生用户变成已注册用户。
type WebhookService interface {
	UpsertSubscription(ctx context.Context, userUUID, callbackURL string, events []string) (*entity.WebhookSubscription, error)
	GetSubscription(ctx context.Context, userUUID string) (*entity.WebhookSubscription, error)
	Deliver(ctx context.Context, event *entity.WebhookEvent) error
}

type webhookServiceImpl struct {
	subs   repo.WebhookSubscriptionRepository
	sender gateway.WebhookSender
}

// NewWebhookService 创建webhook服务
func NewWebhookService(subs repo.WebhookSubscriptionRepository, sender gateway.WebhookSender) WebhookService {
	return &webhookServiceImpl{subs: subs, sender: sender}
}

func (s *webhookServiceImpl) UpsertSubscription(ctx context.Context, userUUID, callbackURL string, events []string) (*entity.WebhookSubscription, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	parsed, err := url.Parse(callbackURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errno.ErrCallbackURLRequired
	}

	sub := entity.NewWebhookSubscription(userUUID, callbackURL, events)
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *webhookServiceImpl) GetSubscription(ctx context.Context, userUUID string) (*entity.WebhookSubscription, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	return s.subs.GetByUserUUID(ctx, userUUID)
}

func (s *webhookServiceImpl) Deliver(ctx context.Context, event *entity.WebhookEvent) error {
	sub, err := s.subs.GetByUserUUID(ctx, event.UserUUID)
	if err != nil {
		if errno.IsNotFound(err) {
			// request construction failed, not delivery: drop, never retry
			return errno.ErrWebhookSubscriberUnknown.Permanent()
		}
		return err
	}

	if !sub.Wants(event.Event) {
		logger.Debugf("webhook skipped by event filter user_uuid=%s event=%s", event.UserUUID, event.Event)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, sub.CallbackURL, body); err != nil {
		logger.Warnf("webhook delivery failed user_uuid=%s event=%s url=%s error=%s",
			event.UserUUID, event.Event, sub.CallbackURL, err.Error())
		return err
	}

	logger.Infof("webhook delivered user_uuid=%s event=%s url=%s", event.UserUUID, event.Event, sub.CallbackURL)
	return nil
}
