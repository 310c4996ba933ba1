// Package recommend owns a learner's current recommendation list and
// publishes each new list as an immutable snapshot.
package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/prompt"
	"github.com/okian/eventwise/internal/domain/scoring"
)

// RefineReason is the reason attached to every refined recommendation.
const RefineReason = "Selected based on your request: \"%s\""

// Source records which operation produced a snapshot.
type Source string

// Snapshot sources.
const (
	SourceNone      Source = "none"
	SourceRecommend Source = "recommend"
	SourceRefine    Source = "refine"
)

// Snapshot is one complete, immutable recommendation list.
type Snapshot struct {
	Recommendations []model.Recommendation
	Version         uint64
	Source          Source
	Prompt          string
	Intent          prompt.Intent
	UpdatedAt       time.Time
}

// clone returns a copy whose slice the caller may modify.
func (s *Snapshot) clone() Snapshot {
	out := *s
	out.Recommendations = make([]model.Recommendation, len(s.Recommendations))
	copy(out.Recommendations, s.Recommendations)
	return out
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithInterpreter sets the prompt interpreter.
func WithInterpreter(in *prompt.Interpreter) Option {
	return func(o *Orchestrator) {
		if in != nil {
			o.interpreter = in
		}
	}
}

// WithRefinePolicy sets how refined events are scored.
func WithRefinePolicy(p scoring.RefinePolicy) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithClock overrides the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator composes scoring and prompt filtering and holds the current
// list. Readers never block; publishers are serialised so versions are
// strictly increasing.
type Orchestrator struct {
	engine      *scoring.Engine
	interpreter *prompt.Interpreter
	policy      scoring.RefinePolicy
	now         func() time.Time

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an orchestrator holding an empty list at version 0.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:      scoring.NewEngine(),
		interpreter: prompt.NewInterpreter(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.policy == nil {
		o.policy = scoring.NewLexicalPolicy(o.engine)
	}
	o.current.Store(&Snapshot{Source: SourceNone, UpdatedAt: o.now()})
	return o
}

// Recommend scores events against the transcript and publishes the result.
// On error the published list is left untouched.
func (o *Orchestrator) Recommend(ctx context.Context, t *model.Transcript, events []model.Event) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("recommend: %w: %w", model.ErrCancelled, err)
	}
	if t == nil {
		return Snapshot{}, fmt.Errorf("recommend: no transcript uploaded: %w", model.ErrPrecondition)
	}
	if len(events) == 0 {
		return Snapshot{}, fmt.Errorf("recommend: empty event catalog: %w", model.ErrProcessing)
	}
	recs, err := o.engine.Score(t, events)
	if err != nil {
		return Snapshot{}, fmt.Errorf("recommend: %w", err)
	}
	return o.publish(ctx, &Snapshot{Recommendations: recs, Source: SourceRecommend})
}

// Refine filters events by the intent of text, scores the survivors with
// the refine policy and publishes the result. t may be nil.
func (o *Orchestrator) Refine(ctx context.Context, text string, t *model.Transcript, events []model.Event) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("refine: %w: %w", model.ErrCancelled, err)
	}
	if len(events) == 0 {
		return Snapshot{}, fmt.Errorf("refine: empty event catalog: %w", model.ErrProcessing)
	}
	intent, pred := o.interpreter.Interpret(text)
	reason := fmt.Sprintf(RefineReason, text)
	survivors := prompt.Filter(events, pred)
	recs := make([]model.Recommendation, 0, len(survivors))
	for _, ev := range survivors {
		recs = append(recs, model.Recommendation{
			EventID: ev.ID,
			Score:   clamp(o.policy.Rescore(t, ev)),
			Reason:  reason,
		})
	}
	scoring.SortRecommendations(recs)
	return o.publish(ctx, &Snapshot{
		Recommendations: recs,
		Source:          SourceRefine,
		Prompt:          text,
		Intent:          intent,
	})
}

// Current returns the latest published list.
func (o *Orchestrator) Current() Snapshot {
	return o.current.Load().clone()
}

// Invalidate publishes an empty list, e.g. after the transcript changed.
func (o *Orchestrator) Invalidate() Snapshot {
	s, _ := o.publish(context.Background(), &Snapshot{Source: SourceNone})
	return s
}

// publish assigns the next version and swaps next in. A context that ended
// while scoring prevents publication.
func (o *Orchestrator) publish(ctx context.Context, next *Snapshot) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("publish: %w: %w", model.ErrCancelled, err)
	}
	if next.Recommendations == nil {
		next.Recommendations = []model.Recommendation{}
	}
	next.Version = o.current.Load().Version + 1
	next.UpdatedAt = o.now()
	o.current.Store(next)
	return next.clone(), nil
}

func clamp(score int) int {
	switch {
	case score < scoring.MinScore:
		return scoring.MinScore
	case score > scoring.MaxScore:
		return scoring.MaxScore
	default:
		return score
	}
}
