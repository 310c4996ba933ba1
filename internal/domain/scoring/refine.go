package scoring

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/okian/eventwise/internal/domain/model"
)

// Refine policy names accepted by NewRefinePolicy.
const (
	PolicyLexical = "lexical"
	PolicyRandom  = "random"
)

const (
	// NeutralScore is assigned by the lexical policy when there is no transcript.
	NeutralScore = 50

	randomFloor       = 50
	randomSpan        = MaxScore - randomFloor + 1
	defaultRandomSeed = 42
)

// RefinePolicy scores an event that survived a prompt filter.
type RefinePolicy interface {
	// Name returns the configuration name of the policy.
	Name() string
	// Rescore returns a score in [0,100]. t may be nil.
	Rescore(t *model.Transcript, ev model.Event) int
}

// NewRefinePolicy resolves a policy by name.
func NewRefinePolicy(name string, e *Engine) (RefinePolicy, error) {
	switch name {
	case PolicyLexical, "":
		return NewLexicalPolicy(e), nil
	case PolicyRandom:
		return NewRandomPolicy(defaultRandomSeed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// LexicalPolicy re-scores survivors with the engine's normalized score. No
// relevance floor is applied since the prompt already selected the events.
type LexicalPolicy struct {
	engine *Engine
}

// NewLexicalPolicy creates a lexical re-score policy. A nil engine uses defaults.
func NewLexicalPolicy(e *Engine) *LexicalPolicy {
	if e == nil {
		e = NewEngine()
	}
	return &LexicalPolicy{engine: e}
}

// Name implements RefinePolicy.
func (p *LexicalPolicy) Name() string { return PolicyLexical }

// Rescore implements RefinePolicy.
func (p *LexicalPolicy) Rescore(t *model.Transcript, ev model.Event) int {
	if t == nil {
		return NeutralScore
	}
	return p.engine.Relevance(t, ev)
}

// RandomPolicy draws uniform scores in [50,100]. It stands in for an
// external relevance model and is only used when configured explicitly.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPolicy creates a seeded random policy.
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic seed for reproducible testing
	}
}

// Name implements RefinePolicy.
func (p *RandomPolicy) Name() string { return PolicyRandom }

// Rescore implements RefinePolicy.
func (p *RandomPolicy) Rescore(_ *model.Transcript, _ model.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return randomFloor + p.rng.Intn(randomSpan)
}
