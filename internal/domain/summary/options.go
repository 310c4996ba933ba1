package summary

import "time"

// Option applies a configuration option to the Summarizer.
type Option func(*Summarizer)

// WithLatency simulates a slow summarization backend. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *Summarizer) {
		if d >= 0 {
			s.latency = d
		}
	}
}
