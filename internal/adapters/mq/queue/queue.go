// Package queue defines the contract for enqueuing and consuming jobs.
//
// The in-memory implementation is a bounded buffered channel. Enqueue never
// blocks: a full queue rejects the job so callers can surface backpressure.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/eventwise/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Job is a unit of work bound to the context of the caller that submitted
// it. Workers skip jobs whose context has already ended.
type Job struct {
	ID         string
	Operation  string
	EnqueuedAt time.Time

	ctx context.Context
	run func(ctx context.Context)
}

// NewJob creates a job that runs fn with ctx.
func NewJob(ctx context.Context, id, operation string, fn func(ctx context.Context)) Job {
	return Job{ID: id, Operation: operation, ctx: ctx, run: fn}
}

// Context returns the submitting caller's context.
func (j Job) Context() context.Context {
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}

// Run executes the job with its own context.
func (j Job) Run() {
	if j.run != nil {
		j.run(j.Context())
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool
	// Dequeue returns a channel that receives jobs as they become available.
	// The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Job
	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int
	// Cap returns the maximum number of queued jobs.
	Cap() int
	// Close stops accepting jobs.
	Close() error
	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)
	return q
}

// Enqueue adds a job to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return false
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now()
	}
	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	default:
		metrics.RecordQueueEnqueueError("full")
		return false
	}
}

// Dequeue returns the receive side of the queue. All consumers share it.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	return q.jobs
}

// Received records dequeue metrics for a job a consumer just took.
func (q *InMemoryQueue) Received(j Job) { //nolint:gocritic // hugeParam
	metrics.RecordQueueDequeue()
	if !j.EnqueuedAt.IsZero() {
		metrics.RecordQueueWaitLatency(float64(time.Since(j.EnqueuedAt).Microseconds()) / 1000)
	}
	q.observe()
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return q.observe()
}

// Cap returns the maximum number of queued jobs.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close stops accepting jobs. Jobs already queued remain receivable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}
