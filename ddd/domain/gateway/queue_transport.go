package gateway

import (
	"context"
	"encoding/json"
)

// Delivery 一条租借到的消息；Tag 是传输层的租约句柄。
type Delivery struct {
	Tag     string
	Payload []byte
}

// QueueTransport 队列传输。消息持久性、可见性超时由具体实现负责。
type QueueTransport interface {
	Enqueue(ctx context.Context, queue string, payload []byte) error

	// LeaseBatch returns up to max messages; an empty slice means the queue is idle.
	LeaseBatch(ctx context.Context, queue string, max int) ([]Delivery, error)

	Ack(ctx context.Context, queue string, tag string) error
}

// Envelope wraps every queued payload with its retry attempt counter.
// Re-enqueueing on failure bumps Attempt and keeps Body byte-identical.
type Envelope struct {
	Attempt int             `json:"attempt"`
	Body    json.RawMessage `json:"body"`
}

// EnqueueJSON marshals v into a fresh envelope and pushes it onto the queue.
func EnqueueJSON(ctx context.Context, t QueueTransport, queue string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Envelope{Attempt: 0, Body: body})
	if err != nil {
		return err
	}
	return t.Enqueue(ctx, queue, payload)
}
