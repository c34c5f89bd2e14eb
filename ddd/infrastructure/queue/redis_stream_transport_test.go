package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStreamTransportLeaseAndAck(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	transport := NewRedisStreamTransport(client, "workers", "worker-1", time.Minute)

	require.NoError(t, transport.Enqueue(ctx, "jobs", []byte(`{"id":"a"}`)))
	require.NoError(t, transport.Enqueue(ctx, "jobs", []byte(`{"id":"b"}`)))

	deliveries, err := transport.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	require.Equal(t, []byte(`{"id":"a"}`), deliveries[0].Payload)
	require.Equal(t, []byte(`{"id":"b"}`), deliveries[1].Payload)

	for _, d := range deliveries {
		require.NoError(t, transport.Ack(ctx, "jobs", d.Tag))
	}

	deliveries, err = transport.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Empty(t, deliveries)
}

// 消费者租借后未结算就退出，同组的另一个消费者必须能接管这条消息，
// 否则它会永远滞留在死消费者的PEL里。
func TestRedisStreamTransportReclaimsStrandedLease(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	crashed := NewRedisStreamTransport(client, "workers", "worker-crashed", time.Millisecond)
	require.NoError(t, crashed.Enqueue(ctx, "jobs", []byte(`{"id":"stranded"}`)))

	deliveries, err := crashed.LeaseBatch(ctx, "jobs", 1)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	// 不结算，模拟进程在处理途中崩溃

	time.Sleep(20 * time.Millisecond)

	survivor := NewRedisStreamTransport(client, "workers", "worker-survivor", time.Millisecond)
	reclaimed, err := survivor.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	require.Equal(t, []byte(`{"id":"stranded"}`), reclaimed[0].Payload)

	require.NoError(t, survivor.Ack(ctx, "jobs", reclaimed[0].Tag))

	deliveries, err = survivor.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Empty(t, deliveries)
}

// 在途租约的空闲时间不足阈值时不允许被接管，否则会重复投递
func TestRedisStreamTransportKeepsFreshLease(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	owner := NewRedisStreamTransport(client, "workers", "worker-owner", time.Minute)
	require.NoError(t, owner.Enqueue(ctx, "jobs", []byte(`{"id":"inflight"}`)))

	deliveries, err := owner.LeaseBatch(ctx, "jobs", 1)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	other := NewRedisStreamTransport(client, "workers", "worker-other", time.Minute)
	got, err := other.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}
