// Package worker runs queued jobs on a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/eventwise/internal/adapters/mq/queue"
	"github.com/okian/eventwise/pkg/logger"
	"github.com/okian/eventwise/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
)

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// receiver is implemented by queues that track dequeue metrics.
type receiver interface {
	Received(j queue.Job)
}

// counters are shared by all workers of a pool.
type counters struct {
	busy      atomic.Int64
	completed atomic.Int64
	skipped   atomic.Int64
}

// InMemoryWorker executes jobs from a Queue until stopped.
type InMemoryWorker struct {
	queue Queue
	name  string
	stats *counters

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		name:     "worker",
		stats:    &counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop. It returns when ctx ends, Shutdown is called
// or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.execute(job)
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// execute runs a single job. Jobs whose caller has already gone are skipped.
func (w *InMemoryWorker) execute(job queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	if r, ok := w.queue.(receiver); ok {
		r.Received(job)
	}
	jobCtx := job.Context()
	if err := jobCtx.Err(); err != nil {
		w.stats.skipped.Add(1)
		metrics.RecordJobSkipped(job.Operation)
		w.logger.Debug(jobCtx, "skipping job, caller gone",
			logger.String("job", job.ID),
			logger.String("operation", job.Operation),
			logger.Error(err),
		)
		return
	}

	metrics.UpdateWorkerBusy(int(w.stats.busy.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerBusy(int(w.stats.busy.Add(-1)))
		metrics.RecordWorkerProcessingLatency(job.Operation, float64(time.Since(start).Microseconds())/1000)
		w.stats.completed.Add(1)
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			w.logger.Error(jobCtx, "job panicked",
				logger.String("job", job.ID),
				logger.String("operation", job.Operation),
				logger.Any("panic", r),
			)
		}
	}()
	job.Run()
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	stats   *counters

	shutdown chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	lastCompleted int64
	lastTick      time.Time

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count defaults to
// twice the number of CPUs. Options are applied to every worker.
func NewPool(workerCount int, q Queue, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		stats:    &counters{},
		shutdown: make(chan struct{}),
		lastTick: time.Now(),
		logger:   logger.Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, wopts...)
		w.stats = p.stats
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerBusy(0)
	metrics.UpdateWorkerJobsPerSecond(0)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Busy returns the number of workers currently executing a job.
func (p *Pool) Busy() int { return int(p.stats.busy.Load()) }

// Completed returns the number of jobs executed.
func (p *Pool) Completed() int64 { return p.stats.completed.Load() }

// Skipped returns the number of jobs dropped because their caller had gone.
func (p *Pool) Skipped() int64 { return p.stats.skipped.Load() }

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	completed := p.stats.completed.Load()
	if elapsed := now.Sub(p.lastTick).Seconds(); elapsed > 0 {
		metrics.UpdateWorkerJobsPerSecond(float64(completed-p.lastCompleted) / elapsed)
	}
	p.lastCompleted = completed
	p.lastTick = now
}

// Stop signals every worker to stop after its current job and waits a
// bounded time for each.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.shutdown) })
	for _, w := range p.workers {
		w.stop()
	}
	if !p.started.Load() {
		return
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and lets workers drain it. If ctx ends first
// the remaining workers are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.stopOnce.Do(func() { close(p.shutdown) })
	if !p.started.Load() {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			for _, rest := range p.workers[i:] {
				rest.stop()
			}
			return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
		}
	}
	return nil
}
