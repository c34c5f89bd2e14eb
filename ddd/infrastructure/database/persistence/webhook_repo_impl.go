package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/infrastructure/database/convertor"
	"convert-service/ddd/infrastructure/database/dao"
	"convert-service/pkg/errno"
)

// webhookRepositoryImpl 回调订阅仓储实现
type webhookRepositoryImpl struct {
	subDao    *dao.WebhookSubscriptionDAO
	convertor *convertor.WebhookSubscriptionConvertor
}

// NewWebhookSubscriptionRepository 创建回调订阅仓储实现
func NewWebhookSubscriptionRepository(db *gorm.DB) repo.WebhookSubscriptionRepository {
	return &webhookRepositoryImpl{
		subDao:    dao.NewWebhookSubscriptionDAO(db),
		convertor: convertor.NewWebhookSubscriptionConvertor(),
	}
}

func (r *webhookRepositoryImpl) Upsert(ctx context.Context, sub *entity.WebhookSubscription) error {
	return r.subDao.Upsert(ctx, r.convertor.ToPO(sub))
}

func (r *webhookRepositoryImpl) GetByUserUUID(ctx context.Context, userUUID string) (*entity.WebhookSubscription, error) {
	s, err := r.subDao.FindByUserUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrWebhookSubscriberUnknown
		}
		return nil, err
	}
	return r.convertor.ToEntity(s), nil
}
