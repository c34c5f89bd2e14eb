package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/infrastructure/queue"
	"convert-service/pkg/errno"
)

type testJob struct {
	ID string `json:"id"`
}

func testOptions(q string) Options {
	return Options{
		Queue:          q,
		MaxParallelism: 1,
		EmptyDelay:     5 * time.Millisecond,
		ErrorDelay:     5 * time.Millisecond,
	}
}

type callRecorder struct {
	mu    sync.Mutex
	calls []testJob
}

func (r *callRecorder) record(j testJob) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, j)
	return len(r.calls)
}

func (r *callRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *callRecorder) all() []testJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]testJob(nil), r.calls...)
}

func TestLoop_RetriesFailedMessageWithSamePayload(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()
	rec := &callRecorder{}

	// first attempt fails, retry succeeds
	handler := func(_ context.Context, j testJob) error {
		if rec.record(j) == 1 {
			return errors.New("boom")
		}
		return nil
	}

	loop := NewLoop("test", transport, handler, testOptions("jobs"))
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "a"}))

	runCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, loop.Start(runCtx))
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, loop.Stop())

	calls := rec.all()
	require.Equal(t, calls[0], calls[1])
	require.Zero(t, transport.Size("jobs"))
	require.Zero(t, transport.Leased("jobs"))
}

func TestLoop_RequeuedEnvelopeKeepsBodyAndBumpsAttempt(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()

	body := json.RawMessage(`{"id":"zed"}`)
	payload, err := json.Marshal(gateway.Envelope{Attempt: 0, Body: body})
	require.NoError(t, err)
	require.NoError(t, transport.Enqueue(ctx, "jobs", payload))

	runCtx, cancel := context.WithCancel(ctx)
	handled := make(chan struct{})
	handler := func(_ context.Context, _ testJob) error {
		// stop the loop right after this delivery settles
		close(handled)
		cancel()
		return errors.New("boom")
	}
	loop := NewLoop("test", transport, handler, testOptions("jobs"))
	require.NoError(t, loop.Start(runCtx))
	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
	// Stop waits for the in-flight batch, so the requeue has settled after it
	require.NoError(t, loop.Stop())

	deliveries, err := transport.LeaseBatch(ctx, "jobs", 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	var env gateway.Envelope
	require.NoError(t, json.Unmarshal(deliveries[0].Payload, &env))
	require.Equal(t, 1, env.Attempt)
	require.Equal(t, []byte(body), []byte(env.Body))
}

func TestLoop_DropsPermanentFailure(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()
	rec := &callRecorder{}

	handler := func(_ context.Context, j testJob) error {
		rec.record(j)
		return errno.ErrWebhookSubscriberUnknown.Permanent()
	}

	loop := NewLoop("test", transport, handler, testOptions("jobs"))
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "a"}))

	runCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, loop.Start(runCtx))
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	// give the loop room to (wrongly) redeliver before asserting
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, loop.Stop())

	require.Equal(t, 1, rec.count())
	require.Zero(t, transport.Size("jobs"))
}

func TestLoop_StopsRetryingAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()
	rec := &callRecorder{}

	handler := func(_ context.Context, j testJob) error {
		rec.record(j)
		return errors.New("boom")
	}

	opts := testOptions("jobs")
	opts.MaxAttempts = 2
	loop := NewLoop("test", transport, handler, opts)
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "a"}))

	runCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, loop.Start(runCtx))
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, loop.Stop())

	require.Equal(t, 2, rec.count())
	require.Zero(t, transport.Size("jobs"))
}

func TestLoop_FailureDoesNotStallOtherMessages(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()
	rec := &callRecorder{}

	handler := func(_ context.Context, j testJob) error {
		rec.record(j)
		if j.ID == "bad" {
			return errno.ErrMediaKindIllegal.Permanent()
		}
		return nil
	}

	opts := testOptions("jobs")
	opts.MaxParallelism = 2
	loop := NewLoop("test", transport, handler, opts)
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "bad"}))
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "good"}))

	runCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, loop.Start(runCtx))
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, loop.Stop())

	require.Zero(t, transport.Size("jobs"))
	require.Zero(t, transport.Leased("jobs"))
}

func TestLoop_DropsUndecodableMessage(t *testing.T) {
	ctx := context.Background()
	transport := queue.NewMemoryTransport()
	rec := &callRecorder{}

	handler := func(_ context.Context, j testJob) error {
		rec.record(j)
		return nil
	}

	loop := NewLoop("test", transport, handler, testOptions("jobs"))
	require.NoError(t, transport.Enqueue(ctx, "jobs", []byte("not json")))
	require.NoError(t, gateway.EnqueueJSON(ctx, transport, "jobs", testJob{ID: "a"}))

	runCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, loop.Start(runCtx))
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, loop.Stop())

	require.Equal(t, []testJob{{ID: "a"}}, rec.all())
	require.Zero(t, transport.Size("jobs"))
}
