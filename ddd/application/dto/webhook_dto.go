package dto

import (
	"time"

	"convert-service/ddd/domain/entity"
)

// WebhookSubscriptionDTO 回调订阅视图
type WebhookSubscriptionDTO struct {
	UUID        string    `json:"uuid"`
	CallbackURL string    `json:"callback_url"`
	Events      []string  `json:"events"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromWebhookSubscription 将实体映射为视图
func FromWebhookSubscription(s *entity.WebhookSubscription) *WebhookSubscriptionDTO {
	return &WebhookSubscriptionDTO{
		UUID:        s.UUID,
		CallbackURL: s.CallbackURL,
		Events:      s.Events,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
