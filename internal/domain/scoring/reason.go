package scoring

import (
	"fmt"

	"github.com/okian/eventwise/internal/domain/lexical"
	"github.com/okian/eventwise/internal/domain/model"
)

// Reason templates, one per confidence tier.
const (
	ReasonHighCourse  = "Highly recommended based on your strong performance in %s."
	ReasonHigh        = "Highly recommended based on your academic profile."
	ReasonMedium      = "This event aligns well with your academic interests."
	ReasonExploratory = "This event might expand your knowledge in a relevant area."
)

const (
	highTier   = 80
	mediumTier = 50
)

// Reason explains a score. High scores name the first course whose name
// overlaps one of the event tags when there is one.
func Reason(score int, t *model.Transcript, ev model.Event) string {
	switch {
	case score > highTier:
		if c, ok := relevantCourse(t, ev); ok {
			return fmt.Sprintf(ReasonHighCourse, c.Name)
		}
		return ReasonHigh
	case score > mediumTier:
		return ReasonMedium
	default:
		return ReasonExploratory
	}
}

func relevantCourse(t *model.Transcript, ev model.Event) (model.Course, bool) {
	if t == nil {
		return model.Course{}, false
	}
	tags := lexical.NewSet(ev.Tags...)
	for _, c := range t.Courses {
		if lexical.MatchesAny(c.Name, tags) {
			return c, true
		}
	}
	return model.Course{}, false
}
