// Package lexical computes the overlap between two bags of terms.
//
// Two terms match when, after case folding, either one contains the other.
// "calculus" therefore matches "calculus workshop" and "science" matches
// "computer science". Everything in this package is pure and safe for
// concurrent use.
package lexical

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold case-folds s for caseless comparison.
// A new Caser is built per call because Casers are stateful.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Set is an insertion-ordered set of case-folded, non-empty terms.
type Set struct {
	terms []string
	seen  map[string]struct{}
}

// NewSet builds a set from whole terms.
func NewSet(terms ...string) *Set {
	s := &Set{seen: make(map[string]struct{}, len(terms))}
	return s.Add(terms...)
}

// Add inserts each term as a single entry. Blank terms are dropped since the
// empty string is contained in every term.
func (s *Set) Add(terms ...string) *Set {
	for _, t := range terms {
		t = Fold(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.terms = append(s.terms, t)
	}
	return s
}

// AddWords inserts every whitespace-separated word of text.
func (s *Set) AddWords(text string) *Set {
	return s.Add(strings.Fields(text)...)
}

// Terms returns the folded terms in insertion order.
func (s *Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len returns the number of distinct terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Matches reports whether a and b overlap under bidirectional containment.
func Matches(a, b string) bool {
	return matchFolded(Fold(a), Fold(b))
}

// MatchesAny reports whether term overlaps any member of target.
func MatchesAny(term string, target *Set) bool {
	return anyFolded(Fold(term), target)
}

// Overlap counts the query terms that overlap at least one target term.
func Overlap(query, target *Set) int {
	if query.Len() == 0 || target.Len() == 0 {
		return 0
	}
	count := 0
	for _, q := range query.terms {
		if anyFolded(q, target) {
			count++
		}
	}
	return count
}

func anyFolded(term string, target *Set) bool {
	if term == "" || target == nil {
		return false
	}
	for _, t := range target.terms {
		if matchFolded(term, t) {
			return true
		}
	}
	return false
}

func matchFolded(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
