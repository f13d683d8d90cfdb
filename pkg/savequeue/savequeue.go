// Package savequeue provides a single-slot coalescing write buffer. Rapid
// successive submissions collapse into one pending value that is flushed
// after a quiet interval, replacing UI-lifecycle debounce timers with an
// explicit abstraction that owns its own teardown.
package savequeue

import (
	"context"
	"sync"
	"time"
)

// FlushFunc persists a coalesced value. It receives the queue's base
// context, which is cancelled after Close completes its final flush.
type FlushFunc[T any] func(ctx context.Context, value T) error

// Queue coalesces submissions of T into at most one pending write.
// A later Submit before the flush timer fires replaces the pending value
// and restarts the timer. Close flushes any pending value synchronously.
type Queue[T any] struct {
	delay time.Duration
	flush FlushFunc[T]

	mu      sync.Mutex
	pending *T
	timer   *time.Timer
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc

	// onError receives flush failures; best-effort, never retried
	onError func(error)
}

// Option configures a Queue.
type Option[T any] func(*Queue[T])

// WithErrorHandler installs a callback for flush failures. Without one,
// failures are dropped (a failed save requires the caller to resubmit).
func WithErrorHandler[T any](fn func(error)) Option[T] {
	return func(q *Queue[T]) { q.onError = fn }
}

// New creates a queue flushing after delay of inactivity.
func New[T any](delay time.Duration, flush FlushFunc[T], opts ...Option[T]) *Queue[T] {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue[T]{
		delay:  delay,
		flush:  flush,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Submit replaces the pending value and restarts the flush timer.
// Submissions after Close are ignored.
func (q *Queue[T]) Submit(value T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	q.pending = &value
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(q.delay, q.flushPending)
}

// Flush persists the pending value immediately, if any.
func (q *Queue[T]) Flush() {
	q.flushPending()
}

func (q *Queue[T]) flushPending() {
	q.mu.Lock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	value := q.pending
	q.pending = nil
	q.mu.Unlock()

	if value == nil {
		return
	}
	if err := q.flush(q.ctx, *value); err != nil && q.onError != nil {
		q.onError(err)
	}
}

// Close flushes any pending value and stops the queue. Safe to call more
// than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.flushPending()
	q.cancel()
}
