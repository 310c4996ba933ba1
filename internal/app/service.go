// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/okian/eventwise/internal/adapters/mq/queue"
	workerpool "github.com/okian/eventwise/internal/adapters/mq/worker"
	"github.com/okian/eventwise/internal/adapters/repository"
	"github.com/okian/eventwise/internal/domain/dedupe"
	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/prompt"
	"github.com/okian/eventwise/internal/domain/recommend"
	"github.com/okian/eventwise/internal/domain/scoring"
	"github.com/okian/eventwise/internal/domain/summary"
	"github.com/okian/eventwise/pkg/logger"
	"github.com/okian/eventwise/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize      = 1024
	defaultRequestTimeout = 5 * time.Second
	defaultDedupeSize     = 50000
)

// Service owns sessions, the collaborator stores and the job pipeline that
// runs the recommendation and summary operations.
type Service struct {
	mu      sync.RWMutex
	started bool

	// Collaborators
	catalog    repository.Catalog
	reviews    repository.ReviewStore
	summarizer *summary.Summarizer
	submitted  dedupe.Deduper

	// Engine
	interpreter *prompt.Interpreter
	engine      *scoring.Engine
	policy      scoring.RefinePolicy
	sessions    *sessions

	// Pipeline
	queue *eventqueue.InMemoryQueue
	pool  *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	requestTimeout time.Duration
	summaryLatency time.Duration
	scoreDivisor   float64
	minRelevance   int
	refinePolicy   string
	seedReviews    bool
	dedupeSize     int

	logger logger.Logger
}

// pipeline is a consistent view of the running components.
type pipeline struct {
	queue   *eventqueue.InMemoryQueue
	timeout time.Duration
	catalog repository.Catalog
	reviews repository.ReviewStore
}

// New constructs a Service. Components are created by Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		requestTimeout: defaultRequestTimeout,
		scoreDivisor:   scoring.DefaultDivisor,
		minRelevance:   scoring.DefaultMinRelevance,
		refinePolicy:   scoring.PolicyLexical,
		interpreter:    prompt.NewInterpreter(),
		dedupeSize:     defaultDedupeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("app")
	}
	s.summarizer = summary.New(summary.WithLatency(s.summaryLatency))
	s.sessions = newSessions(s.newOrchestrator)
	s.submitted = dedupe.NewWindow(dedupe.WithCapacity(s.dedupeSize))
	return s
}

func (s *Service) newOrchestrator() *recommend.Orchestrator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recommend.New(
		recommend.WithEngine(s.engine),
		recommend.WithInterpreter(s.interpreter),
		recommend.WithRefinePolicy(s.policy),
	)
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting eventwise service...")

	engine := scoring.NewEngine(
		scoring.WithDivisor(s.scoreDivisor),
		scoring.WithMinRelevance(s.minRelevance),
	)
	policy, err := scoring.NewRefinePolicy(s.refinePolicy, engine)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	s.engine = engine
	s.policy = policy

	if s.catalog == nil {
		catalog, err := repository.NewStaticCatalog(repository.SampleEvents())
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.catalog = catalog
		s.logger.Info(ctx, "using built-in sample catalog", logger.Int("events", catalog.Len()))
	}
	if s.reviews == nil {
		var ropts []repository.Option
		if s.seedReviews {
			ropts = append(ropts, repository.WithReviews(repository.SampleReviews()))
		}
		s.reviews = repository.NewInMemoryReviewStore(ropts...)
	}

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, workerpool.WithLogger(s.logger.Named("worker")))
	// Workers outlive the start request; Stop ends them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "eventwise service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("refinePolicy", policy.Name()),
		logger.Duration("requestTimeout", s.requestTimeout),
	)
	return nil
}

// Stop drains queued jobs and stops the workers. Jobs still queued when
// ctx ends are abandoned.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping eventwise service...")

	err := s.pool.Shutdown(ctx)
	if err != nil {
		// Queued jobs are abandoned; running ones get a bounded grace period.
		s.logger.Warn(ctx, "worker pool did not drain, stopping workers", logger.Error(err))
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "eventwise service stopped",
		logger.Int64("jobsCompleted", s.pool.Completed()),
		logger.Int64("jobsSkipped", s.pool.Skipped()),
	)
	return err
}

func (s *Service) runtime() (pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.queue.IsClosed() {
		return pipeline{}, ErrNotStarted
	}
	return pipeline{
		queue:   s.queue,
		timeout: s.requestTimeout,
		catalog: s.catalog,
		reviews: s.reviews,
	}, nil
}

// UploadTranscript replaces the session transcript and clears its
// recommendations. It waits for scoring already running in the session.
func (s *Service) UploadTranscript(ctx context.Context, sessionID string, t model.Transcript) (recommend.Snapshot, error) {
	const op = "upload_transcript"
	if err := validateSessionID(sessionID); err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w: %w", op, model.ErrPrecondition, err)
	}
	if err := validateTranscript(&t); err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.runtime(); err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	sess := s.sessions.getOrCreate(sessionID)
	sess.mu.Lock()
	sess.transcript = t.Clone()
	snap := sess.orch.Invalidate()
	sess.mu.Unlock()

	s.logger.Info(ctx, "transcript uploaded",
		logger.String("session", sessionID),
		logger.Int("courses", len(t.Courses)),
	)
	return snap, nil
}

// Transcript returns a copy of the session transcript.
func (s *Service) Transcript(_ context.Context, sessionID string) (model.Transcript, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return model.Transcript{}, err
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	if sess.transcript == nil {
		return model.Transcript{}, fmt.Errorf("transcript: %w: no transcript uploaded", model.ErrPrecondition)
	}
	return *sess.transcript.Clone(), nil
}

// Recommend scores events, or the catalog when events is nil, against the
// session transcript and publishes the result as the session list.
func (s *Service) Recommend(ctx context.Context, sessionID string, events []model.Event) (recommend.Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w: %w", opRecommend, model.ErrPrecondition, err)
	}
	p, err := s.runtime()
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", opRecommend, err)
	}
	sess, ok := s.sessions.get(sessionID)
	if !ok {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w: no transcript uploaded", opRecommend, model.ErrPrecondition)
	}
	events, err = resolveEvents(ctx, p.catalog, events)
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", opRecommend, err)
	}

	return dispatch(ctx, s, opRecommend, func(jctx context.Context) (recommend.Snapshot, error) {
		sess.mu.RLock()
		defer sess.mu.RUnlock()
		snap, err := sess.orch.Recommend(jctx, sess.transcript, events)
		if err != nil {
			return recommend.Snapshot{}, err
		}
		metrics.RecordRecommendations(len(snap.Recommendations))
		return snap, nil
	})
}

// Refine filters events, or the catalog when events is nil, by the intent of
// text and publishes the re-scored survivors. A transcript is optional.
func (s *Service) Refine(ctx context.Context, sessionID, text string, events []model.Event) (recommend.Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w: %w", opRefine, model.ErrPrecondition, err)
	}
	p, err := s.runtime()
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", opRefine, err)
	}
	events, err = resolveEvents(ctx, p.catalog, events)
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%s: %w", opRefine, err)
	}
	sess := s.sessions.getOrCreate(sessionID)

	return dispatch(ctx, s, opRefine, func(jctx context.Context) (recommend.Snapshot, error) {
		sess.mu.RLock()
		defer sess.mu.RUnlock()
		snap, err := sess.orch.Refine(jctx, text, sess.transcript, events)
		if err != nil {
			return recommend.Snapshot{}, err
		}
		metrics.RecordRefineIntent(string(snap.Intent))
		metrics.RecordRecommendations(len(snap.Recommendations))
		return snap, nil
	})
}

// Recommendations returns the session's current list.
func (s *Service) Recommendations(_ context.Context, sessionID string) (recommend.Snapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return recommend.Snapshot{}, err
	}
	return sess.orch.Current(), nil
}

// DeleteSession drops a session with its transcript and list.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return fmt.Errorf("delete session: %w: %w", model.ErrPrecondition, err)
	}
	if !s.sessions.delete(sessionID) {
		return fmt.Errorf("delete session %q: %w", sessionID, ErrSessionNotFound)
	}
	s.logger.Info(ctx, "session deleted", logger.String("session", sessionID))
	return nil
}

// Events returns a snapshot of the event catalog.
func (s *Service) Events(ctx context.Context) ([]model.Event, error) {
	p, err := s.runtime()
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	return p.catalog.Events(ctx)
}

// AddReview stores a review for a catalog event. A summary already cached
// for the event is not recomputed.
func (s *Service) AddReview(ctx context.Context, r model.Review) (model.Review, error) {
	p, err := s.runtime()
	if err != nil {
		return model.Review{}, fmt.Errorf("add review: %w", err)
	}
	if _, err := p.catalog.Event(ctx, r.EventID); err != nil {
		return model.Review{}, fmt.Errorf("add review: %w", err)
	}
	// Client supplied ids make retries idempotent per event.
	key := ""
	if r.ID != "" {
		key = r.EventID + "/" + r.ID
		if s.submitted.SeenAndRecord(ctx, key) {
			metrics.RecordReviewDuplicate()
			return model.Review{}, fmt.Errorf("add review %q: %w", r.ID, ErrDuplicateReview)
		}
	}
	stored, err := p.reviews.Add(ctx, r)
	if err != nil {
		if key != "" {
			s.submitted.Forget(ctx, key)
		}
		return model.Review{}, fmt.Errorf("add review: %w", err)
	}
	return stored, nil
}

// Reviews lists the stored reviews of a catalog event.
func (s *Service) Reviews(ctx context.Context, eventID string) ([]model.Review, error) {
	p, err := s.runtime()
	if err != nil {
		return nil, fmt.Errorf("reviews: %w", err)
	}
	if _, err := p.catalog.Event(ctx, eventID); err != nil {
		return nil, fmt.Errorf("reviews: %w", err)
	}
	return p.reviews.ForEvent(ctx, eventID)
}

// Summarize returns the memoized summary of an event. When reviews is nil
// and nothing is cached yet, the stored reviews are used.
func (s *Service) Summarize(ctx context.Context, eventID string, reviews []model.Review) (model.ReviewSummary, error) {
	p, err := s.runtime()
	if err != nil {
		return model.ReviewSummary{}, fmt.Errorf("%s: %w", opSummarize, err)
	}

	return dispatch(ctx, s, opSummarize, func(jctx context.Context) (model.ReviewSummary, error) {
		input := reviews
		if input == nil && eventID != "" {
			if _, cached := s.summarizer.Lookup(eventID); !cached {
				stored, err := p.reviews.ForEvent(jctx, eventID)
				if err != nil {
					return model.ReviewSummary{}, err
				}
				input = stored
			}
		}
		return s.summarizer.Summarize(jctx, eventID, input)
	})
}

// Summary returns a cached summary without computing one.
func (s *Service) Summary(_ context.Context, eventID string) (model.ReviewSummary, bool) {
	return s.summarizer.Lookup(eventID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":             s.started,
		"workerCount":         s.workerCount,
		"queueSize":           s.queueSize,
		"refinePolicy":        s.refinePolicy,
		"cachedSummaries":     s.summarizer.Size(),
		"summaryComputations": s.summarizer.Computations(),
	}

	sessionCount := s.sessions.len()
	stats["sessions"] = sessionCount
	metrics.UpdateActiveSessions(sessionCount)
	if s.catalog != nil {
		stats["catalogEvents"] = s.catalog.Len()
	}
	if s.reviews != nil {
		stats["reviews"] = s.reviews.Count(ctx)
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["busyWorkers"] = s.pool.Busy()
		stats["jobsCompleted"] = s.pool.Completed()
		stats["jobsSkipped"] = s.pool.Skipped()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}

func (s *Service) session(sessionID string) (*session, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, fmt.Errorf("session: %w: %w", model.ErrPrecondition, err)
	}
	sess, ok := s.sessions.get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	return sess, nil
}

func resolveEvents(ctx context.Context, catalog repository.Catalog, events []model.Event) ([]model.Event, error) {
	if events != nil {
		return events, nil
	}
	return catalog.Events(ctx)
}
