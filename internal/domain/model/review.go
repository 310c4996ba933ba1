package model

import "time"

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Sentiment classifies the average rating of an event.
type Sentiment string

// Sentiment values.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Review is a single participant's rating of an event. Author fields are
// passthrough.
type Review struct {
	ID        string    `json:"id,omitempty"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id,omitempty"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewSummary is the memoized summary for one event.
type ReviewSummary struct {
	EventID       string    `json:"event_id"`
	Summary       string    `json:"summary"`
	Sentiment     Sentiment `json:"sentiment"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}
