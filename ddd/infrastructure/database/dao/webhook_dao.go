package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"convert-service/ddd/infrastructure/database/po"
)

// WebhookSubscriptionDAO 回调订阅数据访问对象
type WebhookSubscriptionDAO struct {
	db *gorm.DB
}

// NewWebhookSubscriptionDAO 创建DAO
func NewWebhookSubscriptionDAO(db *gorm.DB) *WebhookSubscriptionDAO {
	return &WebhookSubscriptionDAO{db: db}
}

// Upsert 按 user_uuid 冲突时更新回调地址与事件过滤
func (d *WebhookSubscriptionDAO) Upsert(ctx context.Context, s *po.WebhookSubscription) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"callback_url", "events", "updated_at"}),
	}).Create(s).Error
}

func (d *WebhookSubscriptionDAO) FindByUserUUID(ctx context.Context, userUUID string) (*po.WebhookSubscription, error) {
	var s po.WebhookSubscription
	if err := d.db.WithContext(ctx).Where("user_uuid = ?", userUUID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
