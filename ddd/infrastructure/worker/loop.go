package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"convert-service/ddd/domain/gateway"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// Handler 处理一条已解码的消息；返回错误触发重新入队。
type Handler[T any] func(ctx context.Context, payload T) error

// Options 单个消费循环的参数
type Options struct {
	Queue          string
	MaxParallelism int
	EmptyDelay     time.Duration
	ErrorDelay     time.Duration
	// MaxAttempts == 0 means retry without a ceiling.
	MaxAttempts int
}

// Loop 通用队列消费引擎：租一批、并发处理、等整批结束再租下一批。
// 失败的消息以相同payload重新入队为新消息，重试从不依赖broker级的nack。
// 循环只因外部取消而停止。
type Loop[T any] struct {
	name      string
	transport gateway.QueueTransport
	handler   Handler[T]
	opts      Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop 创建消费循环
func NewLoop[T any](name string, transport gateway.QueueTransport, handler Handler[T], opts Options) *Loop[T] {
	if opts.MaxParallelism <= 0 {
		opts.MaxParallelism = 1
	}
	if opts.EmptyDelay <= 0 {
		opts.EmptyDelay = time.Second
	}
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = 5 * time.Second
	}
	return &Loop[T]{name: name, transport: transport, handler: handler, opts: opts}
}

// Name implements task.BackgroundTask.
func (l *Loop[T]) Name() string { return l.name }

// Start runs the loop in a goroutine until the context is cancelled.
func (l *Loop[T]) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Run(loopCtx)
	}()
	logger.Infof("worker loop started name=%s queue=%s parallelism=%d", l.name, l.opts.Queue, l.opts.MaxParallelism)
	return nil
}

// Stop cancels the loop and waits for the in-flight batch to finish.
func (l *Loop[T]) Stop() error {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
	logger.Infof("worker loop stopped name=%s queue=%s", l.name, l.opts.Queue)
	return nil
}

// Run drives the poll/dispatch state machine until ctx is cancelled.
func (l *Loop[T]) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		deliveries, err := l.transport.LeaseBatch(ctx, l.opts.Queue, l.opts.MaxParallelism)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return
			}
			logger.Warnf("lease batch failed queue=%s error=%s", l.opts.Queue, err.Error())
			if !sleep(ctx, l.opts.ErrorDelay) {
				return
			}
			continue
		}

		if len(deliveries) == 0 {
			if !sleep(ctx, l.opts.EmptyDelay) {
				return
			}
			continue
		}

		// bound in-flight work: the next lease waits for the whole batch
		var wg sync.WaitGroup
		for _, d := range deliveries {
			wg.Add(1)
			go func(d gateway.Delivery) {
				defer wg.Done()
				l.process(ctx, d)
			}(d)
		}
		wg.Wait()
	}
}

func (l *Loop[T]) process(ctx context.Context, d gateway.Delivery) {
	// the lease is settled exactly once per delivery; retries travel as fresh messages
	defer func() {
		if err := l.transport.Ack(ctx, l.opts.Queue, d.Tag); err != nil {
			logger.Warnf("ack failed queue=%s tag=%s error=%s", l.opts.Queue, d.Tag, err.Error())
		}
	}()

	var env gateway.Envelope
	if err := json.Unmarshal(d.Payload, &env); err != nil {
		logger.Errorf("drop undecodable message queue=%s tag=%s error=%s", l.opts.Queue, d.Tag, err.Error())
		return
	}
	var payload T
	if err := json.Unmarshal(env.Body, &payload); err != nil {
		logger.Errorf("drop undecodable payload queue=%s tag=%s error=%s", l.opts.Queue, d.Tag, err.Error())
		return
	}

	logger.Infof("message started queue=%s tag=%s attempt=%d", l.opts.Queue, d.Tag, env.Attempt)

	err := l.handler(ctx, payload)
	if err == nil {
		logger.Infof("message handled queue=%s tag=%s", l.opts.Queue, d.Tag)
		return
	}

	logger.Warnf("message failed queue=%s tag=%s attempt=%d error=%s", l.opts.Queue, d.Tag, env.Attempt, err.Error())

	if errno.IsPermanent(err) {
		logger.Warnf("message dropped (permanent failure) queue=%s tag=%s", l.opts.Queue, d.Tag)
		return
	}
	if l.opts.MaxAttempts > 0 && env.Attempt+1 >= l.opts.MaxAttempts {
		logger.Errorf("message dropped (attempts exhausted) queue=%s tag=%s attempts=%d", l.opts.Queue, d.Tag, env.Attempt+1)
		return
	}

	l.requeue(ctx, env)
}

// requeue re-submits the identical payload as a new message with a bumped attempt counter.
func (l *Loop[T]) requeue(ctx context.Context, env gateway.Envelope) {
	payload, err := json.Marshal(gateway.Envelope{Attempt: env.Attempt + 1, Body: env.Body})
	if err != nil {
		logger.Errorf("requeue marshal failed queue=%s error=%s", l.opts.Queue, err.Error())
		return
	}
	if err := l.transport.Enqueue(ctx, l.opts.Queue, payload); err != nil {
		logger.Errorf("requeue failed queue=%s error=%s", l.opts.Queue, err.Error())
	}
}

// sleep waits d unless ctx is cancelled first; it reports whether to keep polling.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
