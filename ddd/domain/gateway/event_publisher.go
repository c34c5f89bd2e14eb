package gateway

import (
	"context"

	"convert-service/ddd/domain/vo"
)

// EventPublisher 把转换流水线的生命周期事件发到事件总线（Kafka）。
// 发布是尽力而为的：失败只记日志，绝不让任务失败。
type EventPublisher interface {
	Publish(ctx context.Context, event vo.EventKind, key string, payload interface{}) error
}

// WebhookSender performs the actual HTTP POST for one webhook delivery.
type WebhookSender interface {
	// Send returns a retryable error for non-2xx statuses and transport failures.
	Send(ctx context.Context, url string, body []byte) error
}
