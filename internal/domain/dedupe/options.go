package dedupe

// Option configures a window.
type Option func(capacity *int)

// WithCapacity bounds the number of remembered keys. Zero or less keeps
// every key.
func WithCapacity(n int) Option {
	return func(capacity *int) {
		*capacity = n
	}
}
