// Package prompt classifies free-text refinement requests into a fixed set
// of intents and turns each intent into a filter over events.
//
// Keyword groups are checked in priority order and the first group with a
// keyword present in the prompt wins. Presence is plain substring presence
// on the case-folded prompt, so "art" also fires on "start".
package prompt

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/okian/eventwise/internal/domain/lexical"
	"github.com/okian/eventwise/internal/domain/model"
)

// Intent is the classified purpose of a refinement prompt.
type Intent string

// Recognised intents.
const (
	IntentTechnical Intent = "technical"
	IntentBeginner  Intent = "beginner"
	IntentBusiness  Intent = "business"
	IntentCreative  Intent = "creative"
	IntentNone      Intent = "none"
)

// Predicate reports whether an event passes a refinement filter.
type Predicate func(model.Event) bool

type keywordGroup struct {
	intent   Intent
	keywords []string
}

// groups is ordered by priority.
var groups = []keywordGroup{
	{IntentTechnical, []string{"more technical", "advanced"}},
	{IntentBeginner, []string{"beginner", "introductory"}},
	{IntentBusiness, []string{"business", "entrepreneurship"}},
	{IntentCreative, []string{"art", "creative"}},
}

var (
	technicalTags = tagSet("advanced", "technical", "research", "workshop", "technology", "science", "mathematics")
	businessTags  = tagSet("business", "entrepreneurship", "management", "marketing")
	creativeTags  = tagSet("art", "creative", "design", "literature", "music")
)

// Interpreter scans a prompt for every keyword in one pass. It is immutable
// after construction and safe for concurrent use.
type Interpreter struct {
	matcher *ahocorasick.Matcher
	// owner maps a dictionary index to its group priority.
	owner []int
}

// NewInterpreter builds the keyword automaton.
func NewInterpreter() *Interpreter {
	var dict []string
	var owner []int
	for priority, g := range groups {
		for _, kw := range g.keywords {
			dict = append(dict, kw)
			owner = append(owner, priority)
		}
	}
	return &Interpreter{
		matcher: ahocorasick.NewStringMatcher(dict),
		owner:   owner,
	}
}

// Classify returns the highest-priority intent whose keywords occur in p.
func (in *Interpreter) Classify(p string) Intent {
	folded := lexical.Fold(p)
	if folded == "" {
		return IntentNone
	}
	best := len(groups)
	for _, idx := range in.matcher.MatchThreadSafe([]byte(folded)) {
		if prio := in.owner[idx]; prio < best {
			best = prio
		}
	}
	if best == len(groups) {
		return IntentNone
	}
	return groups[best].intent
}

// Interpret classifies p and returns the matching predicate.
func (in *Interpreter) Interpret(p string) (Intent, Predicate) {
	intent := in.Classify(p)
	return intent, PredicateFor(intent)
}

// PredicateFor returns the filter for an intent. Unknown intents and
// IntentNone let every event through.
func PredicateFor(intent Intent) Predicate {
	switch intent {
	case IntentTechnical:
		return func(ev model.Event) bool {
			return hasTag(ev, technicalTags)
		}
	case IntentBeginner:
		return func(ev model.Event) bool {
			return containsAny(ev.Title, "introduction", "beginner") ||
				containsAny(ev.Description, "introduction", "beginner")
		}
	case IntentBusiness:
		return func(ev model.Event) bool {
			return containsAny(ev.Category, "business") || hasTag(ev, businessTags)
		}
	case IntentCreative:
		return func(ev model.Event) bool {
			return containsAny(ev.Category, "art") || hasTag(ev, creativeTags)
		}
	default:
		return func(model.Event) bool { return true }
	}
}

// Filter returns the events that satisfy pred, in catalog order.
func Filter(events []model.Event, pred Predicate) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if pred(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func tagSet(tags ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return m
}

func hasTag(ev model.Event, set map[string]struct{}) bool {
	for _, t := range ev.Tags {
		if _, ok := set[lexical.Fold(t)]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	folded := lexical.Fold(s)
	for _, sub := range subs {
		if strings.Contains(folded, sub) {
			return true
		}
	}
	return false
}
