package cqe

import "convert-service/pkg/errno"

// UpsertWebhookCqe 注册或更新回调订阅请求
type UpsertWebhookCqe struct {
	UserUUID    string   `json:"-"`
	CallbackURL string   `json:"callback_url" binding:"required"`
	Events      []string `json:"events"`
}

// Validate 校验请求参数
func (c *UpsertWebhookCqe) Validate() error {
	if c.UserUUID == "" {
		return errno.ErrUserUUIDRequired
	}
	if c.CallbackURL == "" {
		return errno.ErrCallbackURLRequired
	}
	return nil
}
