package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/eventwise/internal/adapters/mq/queue"
	"github.com/okian/eventwise/internal/adapters/repository"
	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/pkg/logger"
	"github.com/okian/eventwise/pkg/metrics"
)

// Operation names used for jobs, logs and metrics labels.
const (
	opRecommend = "recommend"
	opRefine    = "refine"
	opSummarize = "summarize"
)

type result[T any] struct {
	val T
	err error
}

// dispatch runs fn on the worker pool and waits for its result or for ctx,
// whichever comes first. The call is bounded by the request timeout.
func dispatch[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	p, err := s.runtime()
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	q, timeout := p.queue, p.timeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan result[T], 1)
	job := eventqueue.NewJob(ctx, uuid.NewString(), op, func(jctx context.Context) {
		v, ferr := fn(jctx)
		done <- result[T]{val: v, err: ferr}
	})

	if !q.Enqueue(ctx, job) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%s: %w: %w", op, model.ErrCancelled, ctxErr)
		} else {
			err = fmt.Errorf("%s: %w", op, ErrBackpressure)
		}
		s.observe(ctx, op, start, err)
		return zero, err
	}

	select {
	case r := <-done:
		s.observe(ctx, op, start, r.err)
		return r.val, r.err
	case <-ctx.Done():
		err = fmt.Errorf("%s: %w: %w", op, model.ErrCancelled, ctx.Err())
		s.observe(ctx, op, start, err)
		return zero, err
	}
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	metrics.RecordOperationLatency(op, float64(time.Since(start).Milliseconds()))
	if err == nil {
		return
	}
	kind := errorKind(err)
	metrics.RecordOperationError(op, kind)
	s.logger.Debug(ctx, "operation failed",
		logger.String("operation", op),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

// errorKind maps an error to a low-cardinality metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline"
	case errors.Is(err, model.ErrCancelled), errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrBackpressure):
		return "backpressure"
	case errors.Is(err, model.ErrPrecondition):
		return "precondition"
	case errors.Is(err, model.ErrProcessing):
		return "processing"
	case errors.Is(err, model.ErrNoData):
		return "no_data"
	case errors.Is(err, model.ErrInvalidReview), errors.Is(err, ErrInvalidTranscript):
		return "invalid_input"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrSessionNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
