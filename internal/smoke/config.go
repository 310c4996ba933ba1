// Package smoke drives a running eventwise server through one full
// recommend, refine and summarize cycle and checks the responses.
package smoke

import (
	"time"

	"github.com/okian/eventwise/internal/domain/model"
)

// Default smoke settings.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultPrompt  = "Show me more technical events"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Prompt  string        // Refinement prompt
	Verbose bool          // Log every response
}

// Check is the outcome of one verification step.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report collects the checks of a run.
type Report struct {
	SessionID       string
	Recommendations []model.Recommendation
	Refined         []model.Recommendation
	Summary         *model.ReviewSummary
	Checks          []Check
	StartTime       time.Time
	Duration        time.Duration
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) record(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}

type snapshot struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Version         uint64                 `json:"version"`
	Source          string                 `json:"source"`
	Intent          string                 `json:"intent"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
