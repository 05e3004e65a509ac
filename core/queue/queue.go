package queue

import (
	"context"
	"sync"
	"time"
)

// Queue is a bounded FIFO of job ids handed from request handlers to the worker.
// It is safe for any number of producers and consumers, though the worker is
// expected to be its only consumer.
type Queue struct {
	items         chan string
	submitTimeout time.Duration

	mu         sync.Mutex
	unfinished int
	idle       chan struct{}
}

// New creates a queue holding at most capacity ids.
func New(capacity int, submitTimeout time.Duration) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	idle := make(chan struct{})
	close(idle)
	return &Queue{
		items:         make(chan string, capacity),
		submitTimeout: submitTimeout,
		idle:          idle,
	}
}

// NewFromConfig creates a queue from cfg, applying defaults to unset values.
func NewFromConfig(cfg Config) *Queue {
	cfg = cfg.WithDefaults()
	return New(cfg.Capacity, cfg.SubmitTimeout)
}

// Submit enqueues id, waiting up to the submit timeout for room. It reports
// false when the queue stayed full or ctx ended first.
func (q *Queue) Submit(ctx context.Context, id string) bool {
	q.begin()

	select {
	case q.items <- id:
		return true
	default:
	}

	timer := time.NewTimer(q.submitTimeout)
	defer timer.Stop()

	select {
	case q.items <- id:
		return true
	case <-timer.C:
	case <-ctx.Done():
	}
	q.finish()
	return false
}

// Dequeue waits up to timeout for the next id. It reports false when the
// timeout elapsed or ctx was cancelled. Every id received must be followed by
// a call to MarkDone once it has been handled.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (string, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case id := <-q.items:
		return id, true
	case <-timer.C:
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// MarkDone records that the most recently dequeued id has been handled.
func (q *Queue) MarkDone() {
	q.finish()
}

// Join blocks until every submitted id has been marked done, or ctx ends.
func (q *Queue) Join(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of ids waiting to be dequeued.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.items)
}

func (q *Queue) begin() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished == 0 {
		q.idle = make(chan struct{})
	}
	q.unfinished++
}

func (q *Queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished == 0 {
		return
	}
	q.unfinished--
	if q.unfinished == 0 {
		close(q.idle)
	}
}
