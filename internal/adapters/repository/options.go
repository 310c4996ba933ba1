package repository

import (
	"time"

	"github.com/okian/eventwise/internal/domain/model"
)

// Option applies a configuration option to the InMemoryReviewStore.
type Option func(*InMemoryReviewStore)

// WithReviews seeds the store. Seeded reviews keep their ids and timestamps.
func WithReviews(reviews []model.Review) Option {
	return func(s *InMemoryReviewStore) {
		s.seed = append(s.seed, reviews...)
	}
}

// WithClock overrides the time source used to stamp new reviews.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryReviewStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how review ids are assigned.
func WithIDGenerator(next func() string) Option {
	return func(s *InMemoryReviewStore) {
		if next != nil {
			s.nextID = next
		}
	}
}
