// Package summary turns a set of reviews into a cached sentiment summary.
//
// Summaries are memoized per event for the life of the process and never
// recomputed. Concurrent requests for the same uncached event collapse into
// a single computation whose result every caller receives.
package summary

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/pkg/metrics"
)

// Summarizer is an append-only summary cache with single-flight computation.
type Summarizer struct {
	mu      sync.RWMutex
	cache   map[string]model.ReviewSummary
	size    atomic.Int64
	runs    atomic.Int64
	group   singleflight.Group
	latency time.Duration
}

// New creates an empty summarizer.
func New(opts ...Option) *Summarizer {
	s := &Summarizer{cache: make(map[string]model.ReviewSummary)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns the cached summary for eventID, computing it from
// reviews on first use. Failed computations are not cached. If ctx ends
// while waiting, ErrCancelled is returned; a computation already running
// still completes and is cached.
func (s *Summarizer) Summarize(ctx context.Context, eventID string, reviews []model.Review) (model.ReviewSummary, error) {
	if eventID == "" {
		return model.ReviewSummary{}, fmt.Errorf("summarize: %w: %w", model.ErrPrecondition, ErrEmptyEventID)
	}
	if sum, ok := s.Lookup(eventID); ok {
		metrics.RecordSummaryCacheHit()
		return sum, nil
	}
	metrics.RecordSummaryCacheMiss()

	ch := s.group.DoChan(eventID, func() (any, error) {
		return s.compute(eventID, reviews)
	})
	select {
	case <-ctx.Done():
		return model.ReviewSummary{}, fmt.Errorf("summarize %s: %w: %w", eventID, model.ErrCancelled, ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.RecordSummaryShared()
		}
		if res.Err != nil {
			return model.ReviewSummary{}, res.Err
		}
		sum, _ := res.Val.(model.ReviewSummary)
		return sum, nil
	}
}

// Lookup returns a cached summary without computing.
func (s *Summarizer) Lookup(eventID string) (model.ReviewSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.cache[eventID]
	return sum, ok
}

// Size returns the number of cached summaries.
func (s *Summarizer) Size() int64 {
	return s.size.Load()
}

// Computations returns how many summaries have been computed.
func (s *Summarizer) Computations() int64 {
	return s.runs.Load()
}

func (s *Summarizer) compute(eventID string, reviews []model.Review) (model.ReviewSummary, error) {
	// A flight that finished between Lookup and DoChan has already stored it.
	if sum, ok := s.Lookup(eventID); ok {
		return sum, nil
	}
	if len(reviews) == 0 {
		return model.ReviewSummary{}, fmt.Errorf("summarize %s: no reviews: %w", eventID, model.ErrNoData)
	}
	total := 0
	for i, r := range reviews {
		if r.Rating < model.MinRating || r.Rating > model.MaxRating {
			return model.ReviewSummary{}, fmt.Errorf("summarize %s: review %d rating %d outside %d..%d: %w",
				eventID, i, r.Rating, model.MinRating, model.MaxRating, model.ErrInvalidReview)
		}
		total += r.Rating
	}
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	s.runs.Add(1)

	avg := float64(total) / float64(len(reviews))
	sentiment := Classify(avg)
	sum := model.ReviewSummary{
		EventID:       eventID,
		Summary:       Template(sentiment),
		Sentiment:     sentiment,
		AverageRating: Round1(avg),
		ReviewCount:   len(reviews),
	}

	s.mu.Lock()
	if existing, ok := s.cache[eventID]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.cache[eventID] = sum
	s.mu.Unlock()
	s.size.Add(1)
	metrics.RecordSentiment(string(sentiment))
	return sum, nil
}
