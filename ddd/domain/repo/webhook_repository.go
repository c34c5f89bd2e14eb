package repo

import (
	"context"

	"convert-service/ddd/domain/entity"
)

// WebhookSubscriptionRepository 回调订阅仓储，按 user_uuid upsert。
type WebhookSubscriptionRepository interface {
	Upsert(ctx context.Context, sub *entity.WebhookSubscription) error

	// GetByUserUUID returns errno.ErrWebhookSubscriberUnknown when absent.
	GetByUserUUID(ctx context.Context, userUUID string) (*entity.WebhookSubscription, error)
}
