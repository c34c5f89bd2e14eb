package queue

import (
	"context"
	"strconv"
	"sync"

	"convert-service/ddd/domain/gateway"
)

// MemoryTransport 进程内队列传输，语义与Redis Stream实现一致，用于测试与单机试跑
type MemoryTransport struct {
	mu      sync.Mutex
	queues  map[string][]gateway.Delivery
	leased  map[string]map[string]struct{} // queue -> leased tags
	nextTag uint64
}

// NewMemoryTransport 创建内存传输
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		queues: make(map[string][]gateway.Delivery),
		leased: make(map[string]map[string]struct{}),
	}
}

var _ gateway.QueueTransport = (*MemoryTransport)(nil)

func (t *MemoryTransport) Enqueue(_ context.Context, queue string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextTag++
	cp := append([]byte(nil), payload...)
	t.queues[queue] = append(t.queues[queue], gateway.Delivery{
		Tag:     strconv.FormatUint(t.nextTag, 10),
		Payload: cp,
	})
	return nil
}

func (t *MemoryTransport) LeaseBatch(_ context.Context, queue string, max int) ([]gateway.Delivery, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.queues[queue]
	if len(pending) == 0 {
		return nil, nil
	}
	n := max
	if n > len(pending) {
		n = len(pending)
	}
	batch := pending[:n]
	t.queues[queue] = append([]gateway.Delivery(nil), pending[n:]...)
	if t.leased[queue] == nil {
		t.leased[queue] = make(map[string]struct{})
	}
	for _, d := range batch {
		t.leased[queue][d.Tag] = struct{}{}
	}
	return batch, nil
}

func (t *MemoryTransport) Ack(_ context.Context, queue, tag string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.leased[queue], tag)
	return nil
}

// Size reports how many messages are waiting in a queue.
func (t *MemoryTransport) Size(queue string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queues[queue])
}

// Leased reports how many leases are outstanding for a queue.
func (t *MemoryTransport) Leased(queue string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.leased[queue])
}
