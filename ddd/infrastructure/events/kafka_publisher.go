package events

import (
	"context"
	"encoding/json"
	"time"

	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/kafka"
)

// KafkaPublisher 把流水线生命周期事件发往Kafka事件主题
type KafkaPublisher struct {
	client *kafka.Client
	topic  string
}

// NewKafkaPublisher 创建发布器
func NewKafkaPublisher(client *kafka.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

var _ gateway.EventPublisher = (*KafkaPublisher)(nil)

type eventMessage struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, event vo.EventKind, key string, payload interface{}) error {
	value, err := json.Marshal(eventMessage{
		Event:     event.String(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	return p.client.Produce(ctx, p.topic, []byte(key), value)
}

// NoopPublisher 事件总线未启用时的空实现
type NoopPublisher struct{}

var _ gateway.EventPublisher = (*NoopPublisher)(nil)

func (NoopPublisher) Publish(context.Context, vo.EventKind, string, interface{}) error {
	return nil
}
