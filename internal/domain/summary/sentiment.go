package summary

import (
	"math"

	"github.com/okian/eventwise/internal/domain/model"
)

// Summary templates, one per sentiment.
const (
	PositiveSummary = "Most participants were very satisfied with this event. " +
		"They highlighted the quality of the content and the organization. " +
		"Several mentioned they would recommend it to peers."
	NegativeSummary = "Some participants expressed concerns about this event. " +
		"Common points of feedback include the level of difficulty and pacing. " +
		"Consider reviewing the content before attending."
	NeutralSummary = "Participants had mixed feedback about this event. " +
		"Some found it valuable while others thought it could be improved. " +
		"Consider your specific interests when deciding to attend."
)

const (
	positiveThreshold = 4.0
	negativeThreshold = 3.0
)

// Classify maps an average rating to a sentiment. [3,4) is neutral.
func Classify(avg float64) model.Sentiment {
	switch {
	case avg >= positiveThreshold:
		return model.SentimentPositive
	case avg < negativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// Template returns the fixed summary paragraph for a sentiment.
func Template(s model.Sentiment) string {
	switch s {
	case model.SentimentPositive:
		return PositiveSummary
	case model.SentimentNegative:
		return NegativeSummary
	default:
		return NeutralSummary
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
