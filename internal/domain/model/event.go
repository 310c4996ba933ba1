// Package model contains domain models passed between layers.
package model

// Event is a catalog entry the engine scores. Only ID, Title, Description,
// Category and Tags are read by the engine; the remaining fields are
// passthrough data owned by the catalog.
type Event struct {
	ID          string   `json:"id" koanf:"id"`
	Title       string   `json:"title" koanf:"title"`
	Description string   `json:"description" koanf:"description"`
	Category    string   `json:"category" koanf:"category"`
	Tags        []string `json:"tags" koanf:"tags"`

	Date          string `json:"date,omitempty" koanf:"date"`
	Time          string `json:"time,omitempty" koanf:"time"`
	Location      string `json:"location,omitempty" koanf:"location"`
	Image         string `json:"image,omitempty" koanf:"image"`
	Capacity      int    `json:"capacity,omitempty" koanf:"capacity"`
	Registered    int    `json:"registered,omitempty" koanf:"registered"`
	HasLivestream bool   `json:"has_livestream,omitempty" koanf:"has_livestream"`
}

// Recommendation ranks one catalog event for a learner.
// Score is always within [0, 100].
type Recommendation struct {
	EventID string `json:"event_id"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
}
