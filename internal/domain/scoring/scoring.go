// Package scoring ranks catalog events against a learner's transcript.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/eventwise/internal/domain/lexical"
	"github.com/okian/eventwise/internal/domain/model"
)

// Default scoring configuration constants.
const (
	// DefaultDivisor is the number of weighted matches treated as perfect relevance.
	DefaultDivisor = 5.0
	// DefaultMinRelevance is the floor; scores at or below it are discarded.
	DefaultMinRelevance = 20

	MinScore = 0
	MaxScore = 100

	matchWeight      = 1.0
	strongGradeBonus = 0.5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDivisor sets the calibration divisor. Non-positive values are ignored.
func WithDivisor(d float64) Option {
	return func(e *Engine) {
		if d > 0 {
			e.divisor = d
		}
	}
}

// WithMinRelevance sets the relevance floor. Values outside [0,100) are ignored.
func WithMinRelevance(floor int) Option {
	return func(e *Engine) {
		if floor >= MinScore && floor < MaxScore {
			e.minRelevance = floor
		}
	}
}

// Engine scores (transcript, event) pairs. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	divisor      float64
	minRelevance int
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		divisor:      DefaultDivisor,
		minRelevance: DefaultMinRelevance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinRelevance returns the configured relevance floor.
func (e *Engine) MinRelevance() int { return e.minRelevance }

// Score ranks events by relevance to the transcript. Events scoring at or
// below the relevance floor are dropped; the rest are sorted by score
// descending, ties kept in catalog order.
func (e *Engine) Score(t *model.Transcript, events []model.Event) ([]model.Recommendation, error) {
	if t == nil {
		return nil, fmt.Errorf("score: no transcript: %w", model.ErrPrecondition)
	}
	courses := courseTerms(t)
	recs := make([]model.Recommendation, 0, len(events))
	for i := range events {
		ev := &events[i]
		score := e.normalize(matchScore(courses, t.Courses, EventTerms(*ev)))
		if score <= e.minRelevance {
			continue
		}
		recs = append(recs, model.Recommendation{
			EventID: ev.ID,
			Score:   score,
			Reason:  Reason(score, t, *ev),
		})
	}
	SortRecommendations(recs)
	return recs, nil
}

// Relevance returns the normalized score of a single event without applying
// the relevance floor.
func (e *Engine) Relevance(t *model.Transcript, ev model.Event) int {
	if t == nil {
		return MinScore
	}
	return e.normalize(matchScore(courseTerms(t), t.Courses, EventTerms(ev)))
}

func (e *Engine) normalize(match float64) int {
	score := int(math.Round(match / e.divisor * MaxScore))
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}

// EventTerms builds the term set of an event: every tag whole, plus the
// words of its title and category.
func EventTerms(ev model.Event) *lexical.Set {
	return lexical.NewSet(ev.Tags...).AddWords(ev.Title).AddWords(ev.Category)
}

// CourseTerms builds the term set of a course: the words of its name plus
// its code as a single term.
func CourseTerms(c model.Course) *lexical.Set {
	return lexical.NewSet().AddWords(c.Name).Add(c.Code)
}

func courseTerms(t *model.Transcript) []*lexical.Set {
	out := make([]*lexical.Set, len(t.Courses))
	for i, c := range t.Courses {
		out[i] = CourseTerms(c)
	}
	return out
}

// matchScore adds one point per course term that overlaps the event, plus a
// bonus per matching term when the course grade is strong.
func matchScore(terms []*lexical.Set, courses []model.Course, event *lexical.Set) float64 {
	var total float64
	for i, set := range terms {
		n := lexical.Overlap(set, event)
		if n == 0 {
			continue
		}
		weight := matchWeight
		if courses[i].IsStrongGrade() {
			weight += strongGradeBonus
		}
		total += float64(n) * weight
	}
	return total
}

// SortRecommendations orders recs by score descending, stable on ties.
func SortRecommendations(recs []model.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}
