package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/pkg/metrics"
)

// ReviewStore stores reviews per event.
type ReviewStore interface {
	// Add validates and stores a review, assigning its id and timestamp.
	Add(ctx context.Context, r model.Review) (model.Review, error)
	// ForEvent returns the reviews of an event in insertion order.
	ForEvent(ctx context.Context, eventID string) ([]model.Review, error)
	// Count returns the total number of stored reviews.
	Count(ctx context.Context) int
}

// InMemoryReviewStore implements ReviewStore with a map guarded by a lock.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	byEvent map[string][]model.Review
	total   int

	seed   []model.Review
	now    func() time.Time
	nextID func() string
}

// NewInMemoryReviewStore creates a review store with configuration options.
func NewInMemoryReviewStore(opts ...Option) *InMemoryReviewStore {
	s := &InMemoryReviewStore{
		byEvent: make(map[string][]model.Review),
		now:     time.Now,
		nextID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, r := range s.seed {
		s.byEvent[r.EventID] = append(s.byEvent[r.EventID], r)
		s.total++
	}
	s.seed = nil
	return s
}

// Add implements ReviewStore.
func (s *InMemoryReviewStore) Add(ctx context.Context, r model.Review) (model.Review, error) {
	if err := ctx.Err(); err != nil {
		return model.Review{}, err
	}
	if r.EventID == "" {
		return model.Review{}, fmt.Errorf("%w: missing event id", model.ErrInvalidReview)
	}
	if r.Rating < model.MinRating || r.Rating > model.MaxRating {
		return model.Review{}, fmt.Errorf("%w: rating %d outside %d..%d",
			model.ErrInvalidReview, r.Rating, model.MinRating, model.MaxRating)
	}
	if r.ID == "" {
		r.ID = s.nextID()
	}
	r.CreatedAt = s.now()

	s.mu.Lock()
	s.byEvent[r.EventID] = append(s.byEvent[r.EventID], r)
	s.total++
	s.mu.Unlock()

	metrics.RecordReviewStored()
	return r, nil
}

// ForEvent implements ReviewStore.
func (s *InMemoryReviewStore) ForEvent(ctx context.Context, eventID string) ([]model.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.byEvent[eventID]
	out := make([]model.Review, len(src))
	copy(out, src)
	return out, nil
}

// Count implements ReviewStore.
func (s *InMemoryReviewStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
