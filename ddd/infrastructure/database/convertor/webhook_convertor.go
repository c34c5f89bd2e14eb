package convertor

import (
	"convert-service/ddd/domain/entity"
	"convert-service/ddd/infrastructure/database/po"
)

// WebhookSubscriptionConvertor 回调订阅PO/Entity转换器
type WebhookSubscriptionConvertor struct{}

// NewWebhookSubscriptionConvertor 创建转换器
func NewWebhookSubscriptionConvertor() *WebhookSubscriptionConvertor {
	return &WebhookSubscriptionConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *WebhookSubscriptionConvertor) ToEntity(s *po.WebhookSubscription) *entity.WebhookSubscription {
	return &entity.WebhookSubscription{
		UUID:        s.SubscriptionUUID,
		UserUUID:    s.UserUUID,
		CallbackURL: s.CallbackURL,
		Events:      s.Events,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToPO 将Entity转换为PO
func (c *WebhookSubscriptionConvertor) ToPO(e *entity.WebhookSubscription) *po.WebhookSubscription {
	return &po.WebhookSubscription{
		BaseModel:        po.BaseModel{CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt},
		SubscriptionUUID: e.UUID,
		UserUUID:         e.UserUUID,
		CallbackURL:      e.CallbackURL,
		Events:           e.Events,
	}
}
