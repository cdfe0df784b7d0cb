package serve

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// Option configures the handler.
type Option func(*config)

type config struct {
	logger *slog.Logger
	limit  rate.Limit
	burst  int
}

// WithLogger sets the logger for access records and stream failures.
// If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRateLimit caps every response body at bytesPerSecond. burst is the
// largest single write; non-positive values default to bytesPerSecond.
// A non-positive bytesPerSecond disables throttling.
func WithRateLimit(bytesPerSecond, burst int) Option {
	return func(c *config) {
		if bytesPerSecond <= 0 {
			c.limit, c.burst = 0, 0
			return
		}
		if burst <= 0 {
			burst = bytesPerSecond
		}
		c.limit = rate.Limit(bytesPerSecond)
		c.burst = burst
	}
}
