package entity

import (
	"time"

	"github.com/google/uuid"

	"convert-service/ddd/domain/vo"
)

// WebhookSubscription 用户注册的回调地址。
// 每个用户至多一条，按 user_uuid upsert。
type WebhookSubscription struct {
	UUID        string
	UserUUID    string
	CallbackURL string
	// Events 为空表示订阅全部事件
	Events    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWebhookSubscription 创建订阅
func NewWebhookSubscription(userUUID, callbackURL string, events []string) *WebhookSubscription {
	now := time.Now()
	return &WebhookSubscription{
		UUID:        uuid.New().String(),
		UserUUID:    userUUID,
		CallbackURL: callbackURL,
		Events:      events,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Wants reports whether the subscription covers the given event kind.
func (s *WebhookSubscription) Wants(event vo.EventKind) bool {
	if len(s.Events) == 0 {
		return true
	}
	for _, e := range s.Events {
		if e == event.String() {
			return true
		}
	}
	return false
}
