package smoke

import (
	"fmt"

	"github.com/okian/eventwise/internal/domain/model"
)

// refineReason mirrors the reason the server attaches to refined entries.
const refineReason = "Selected based on your request: \"%s\""

func verifyRecommendations(r *Report, recs []model.Recommendation) {
	r.record("recommend non-empty", len(recs) > 0, fmt.Sprintf("%d recommendations", len(recs)))
	r.record("recommend ordering", sortedDesc(recs), "scores descending")
	for _, rec := range recs {
		if rec.Score <= 20 || rec.Score > 100 {
			r.record("recommend bounds", false, fmt.Sprintf("event %s scored %d", rec.EventID, rec.Score))
			return
		}
		if rec.Reason == "" {
			r.record("recommend bounds", false, fmt.Sprintf("event %s has no reason", rec.EventID))
			return
		}
	}
	r.record("recommend bounds", true, "20 < score <= 100")
}

func verifyRefined(r *Report, prompt string, s snapshot) {
	r.record("refine ordering", sortedDesc(s.Recommendations), "scores descending")
	want := fmt.Sprintf(refineReason, prompt)
	for _, rec := range s.Recommendations {
		if rec.Reason != want {
			r.record("refine reason", false, fmt.Sprintf("event %s: %q", rec.EventID, rec.Reason))
			return
		}
		if rec.Score < 0 || rec.Score > 100 {
			r.record("refine reason", false, fmt.Sprintf("event %s scored %d", rec.EventID, rec.Score))
			return
		}
	}
	r.record("refine reason", true, "intent "+s.Intent)
}

func verifySummary(r *Report, s *model.ReviewSummary) {
	switch {
	case s.AverageRating < model.MinRating || s.AverageRating > model.MaxRating:
		r.record("summary", false, fmt.Sprintf("average %.1f out of range", s.AverageRating))
	case !sentimentConsistent(s.Sentiment, s.AverageRating):
		r.record("summary", false, fmt.Sprintf("sentiment %s for average %.1f", s.Sentiment, s.AverageRating))
	case s.Summary == "":
		r.record("summary", false, "empty summary text")
	default:
		r.record("summary", true, fmt.Sprintf("%s %.1f", s.Sentiment, s.AverageRating))
	}
}

// sentimentConsistent checks the label against the rounded average. The
// server classifies the unrounded value, so a rounded average sitting on a
// threshold is accepted with either neighbouring label.
func sentimentConsistent(s model.Sentiment, avg float64) bool {
	switch s {
	case model.SentimentPositive:
		return avg >= 4
	case model.SentimentNegative:
		return avg <= 3
	case model.SentimentNeutral:
		return avg >= 3 && avg <= 4
	}
	return false
}

func sortedDesc(recs []model.Recommendation) bool {
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			return false
		}
	}
	return true
}
