package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"convert-service/ddd/domain/gateway"
)

const payloadField = "payload"

// defaultReclaimMinIdle 接管他人滞留租约前的最小空闲时间，
// 必须大于单条消息的最长处理时间，否则在途消息会被重复投递。
const defaultReclaimMinIdle = time.Minute

// RedisStreamTransport 基于Redis Stream的队列传输。
// XADD入队，XREADGROUP按消费组租借，XACK结算租约；
// 重试不走PEL重投，消费方以新消息重新入队。
// 消费者崩溃后滞留在PEL里的租约由其他消费者经XAUTOCLAIM接管。
type RedisStreamTransport struct {
	client         *redis.Client
	group          string
	consumer       string
	reclaimMinIdle time.Duration

	mu      sync.Mutex
	ensured map[string]bool
}

// NewRedisStreamTransport 创建传输；consumer 应为实例唯一标识
func NewRedisStreamTransport(client *redis.Client, group, consumer string, reclaimMinIdle time.Duration) *RedisStreamTransport {
	if reclaimMinIdle <= 0 {
		reclaimMinIdle = defaultReclaimMinIdle
	}
	return &RedisStreamTransport{
		client:         client,
		group:          group,
		consumer:       consumer,
		reclaimMinIdle: reclaimMinIdle,
		ensured:        make(map[string]bool),
	}
}

var _ gateway.QueueTransport = (*RedisStreamTransport)(nil)

// ensureGroup 惰性创建stream与消费组，BUSYGROUP视为已存在
func (t *RedisStreamTransport) ensureGroup(ctx context.Context, queue string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ensured[queue] {
		return nil
	}
	err := t.client.XGroupCreateMkStream(ctx, queue, t.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	t.ensured[queue] = true
	return nil
}

func (t *RedisStreamTransport) Enqueue(ctx context.Context, queue string, payload []byte) error {
	if err := t.ensureGroup(ctx, queue); err != nil {
		return err
	}
	return t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: queue,
		Values: map[string]interface{}{payloadField: payload},
	}).Err()
}

func (t *RedisStreamTransport) LeaseBatch(ctx context.Context, queue string, max int) ([]gateway.Delivery, error) {
	if err := t.ensureGroup(ctx, queue); err != nil {
		return nil, err
	}

	// leases stranded by a dead consumer come first, fresh entries fill the rest
	deliveries, err := t.reclaim(ctx, queue, max)
	if err != nil {
		return nil, err
	}
	if len(deliveries) >= max {
		return deliveries, nil
	}

	res, err := t.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    t.group,
		Consumer: t.consumer,
		Streams:  []string{queue, ">"},
		Count:    int64(max - len(deliveries)),
		Block:    -1, // non-blocking, the consume loop owns the poll cadence
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return deliveries, nil
		}
		return nil, err
	}

	for _, stream := range res {
		deliveries = t.collect(ctx, queue, deliveries, stream.Messages)
	}
	return deliveries, nil
}

// reclaim 经XAUTOCLAIM接管消费组里空闲超过阈值的待结算消息。
// 消费者在租借和结算之间崩溃时，消息留在它名下的PEL里，
// XREADGROUP的">"永远不会重投这些消息。
func (t *RedisStreamTransport) reclaim(ctx context.Context, queue string, max int) ([]gateway.Delivery, error) {
	msgs, _, err := t.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   queue,
		Group:    t.group,
		Consumer: t.consumer,
		MinIdle:  t.reclaimMinIdle,
		Start:    "0-0",
		Count:    int64(max),
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return t.collect(ctx, queue, nil, msgs), nil
}

// collect 把stream消息转成投递记录，搬不动的坏条目当场结算
func (t *RedisStreamTransport) collect(ctx context.Context, queue string, deliveries []gateway.Delivery, msgs []redis.XMessage) []gateway.Delivery {
	for _, msg := range msgs {
		raw, ok := msg.Values[payloadField].(string)
		if !ok {
			// malformed entry, settle it so it never comes back
			_ = t.client.XAck(ctx, queue, t.group, msg.ID).Err()
			continue
		}
		deliveries = append(deliveries, gateway.Delivery{Tag: msg.ID, Payload: []byte(raw)})
	}
	return deliveries
}

func (t *RedisStreamTransport) Ack(ctx context.Context, queue, tag string) error {
	if err := t.client.XAck(ctx, queue, t.group, tag).Err(); err != nil {
		return err
	}
	// settled entries carry no value, trim them from the stream
	return t.client.XDel(ctx, queue, tag).Err()
}
