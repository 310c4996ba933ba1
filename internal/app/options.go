package service

import (
	"time"

	"github.com/okian/eventwise/internal/adapters/repository"
	"github.com/okian/eventwise/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRequestTimeout bounds every operation. Earlier caller deadlines win.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the event catalog. Defaults to the built-in sample.
func WithCatalog(c repository.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithReviewStore sets the review store. Defaults to an in-memory store.
func WithReviewStore(rs repository.ReviewStore) Option {
	return func(s *Service) {
		if rs != nil {
			s.reviews = rs
		}
	}
}

// WithSeedReviews preloads the sample reviews into the default store.
func WithSeedReviews(seed bool) Option {
	return func(s *Service) {
		s.seedReviews = seed
	}
}

// WithScoreDivisor sets the number of weighted matches treated as full relevance.
func WithScoreDivisor(d float64) Option {
	return func(s *Service) {
		if d > 0 {
			s.scoreDivisor = d
		}
	}
}

// WithMinRelevance sets the recommendation floor.
func WithMinRelevance(floor int) Option {
	return func(s *Service) {
		s.minRelevance = floor
	}
}

// WithRefinePolicy selects the refine scoring policy by name.
func WithRefinePolicy(name string) Option {
	return func(s *Service) {
		s.refinePolicy = name
	}
}

// WithSummaryLatency simulates a slow summarization backend.
func WithSummaryLatency(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.summaryLatency = d
		}
	}
}

// WithDedupeSize bounds how many client review ids are remembered for
// duplicate detection. Zero or less remembers all of them.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		s.dedupeSize = n
	}
}
