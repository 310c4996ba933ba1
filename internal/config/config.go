// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and EVENTWISE_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Refine policy names; mirrored from the scoring package to keep config free
// of domain imports.
const (
	RefinePolicyLexical = "lexical"
	RefinePolicyRandom  = "random"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of job workers.
	WorkerCount int `koanf:"worker_count"`
	// RequestTimeoutMS bounds every engine operation.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// CatalogPath points to a YAML event catalog. Empty uses the built-in sample.
	CatalogPath string `koanf:"catalog_path"`
	// SeedReviews preloads the sample reviews into the review store.
	SeedReviews bool `koanf:"seed_reviews"`
	// ReviewDedupeSize bounds the remembered client review ids; 0 keeps all.
	ReviewDedupeSize int `koanf:"review_dedupe_size"`

	// ScoreDivisor is the number of weighted matches treated as full relevance.
	ScoreDivisor float64 `koanf:"score_divisor"`
	// MinRelevance drops recommendations scoring at or below it.
	MinRelevance int `koanf:"min_relevance"`
	// RefinePolicy is lexical or random.
	RefinePolicy string `koanf:"refine_policy"`
	// SummaryLatencyMS simulates a slow summarization backend.
	SummaryLatencyMS int `koanf:"summary_latency_ms"`

	// RateLimitRequests per RateLimitWindowSec per client IP; 0 disables it.
	RateLimitRequests  int `koanf:"rate_limit_requests"`
	RateLimitWindowSec int `koanf:"rate_limit_window_sec"`
	// MaxPromptLength caps refinement prompts in bytes.
	MaxPromptLength int `koanf:"max_prompt_length"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          1024,
		WorkerCount:        runtime.NumCPU() * 2,
		RequestTimeoutMS:   5000,
		ShutdownTimeoutMS:  10000,
		SeedReviews:        true,
		ReviewDedupeSize:   50000,
		ScoreDivisor:       5,
		MinRelevance:       20,
		RefinePolicy:       RefinePolicyLexical,
		RateLimitRequests:  100,
		RateLimitWindowSec: 1,
		MaxPromptLength:    500,
	}
}

// RequestTimeout returns the per-operation timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// SummaryLatency returns the simulated summarization latency.
func (c *Config) SummaryLatency() time.Duration {
	return time.Duration(c.SummaryLatencyMS) * time.Millisecond
}

// RateLimitWindow returns the rate limit window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	case c.ScoreDivisor <= 0:
		return fmt.Errorf("%w: score_divisor must be positive", ErrInvalidConfig)
	case c.MinRelevance < 0 || c.MinRelevance >= 100:
		return fmt.Errorf("%w: min_relevance must be in [0,100)", ErrInvalidConfig)
	case c.RefinePolicy != RefinePolicyLexical && c.RefinePolicy != RefinePolicyRandom:
		return fmt.Errorf("%w: refine_policy %q", ErrInvalidConfig, c.RefinePolicy)
	case c.SummaryLatencyMS < 0:
		return fmt.Errorf("%w: summary_latency_ms must not be negative", ErrInvalidConfig)
	case c.RateLimitRequests < 0:
		return fmt.Errorf("%w: rate_limit_requests must not be negative", ErrInvalidConfig)
	case c.RateLimitRequests > 0 && c.RateLimitWindowSec <= 0:
		return fmt.Errorf("%w: rate_limit_window_sec must be positive", ErrInvalidConfig)
	case c.MaxPromptLength <= 0:
		return fmt.Errorf("%w: max_prompt_length must be positive", ErrInvalidConfig)
	}
	return nil
}
