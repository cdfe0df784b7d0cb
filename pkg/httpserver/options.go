package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the HTTP server.
type Option func(*config)

// WithHost sets the interface the server binds to.
func WithHost(host string) Option {
	if host == "" {
		panic("WithHost: host cannot be empty")
	}
	return func(c *config) { c.host = host }
}

// WithPort sets the port to listen on. Zero lets the operating system pick a free port.
func WithPort(port int) Option {
	if port < 0 || port > 65535 {
		panic("WithPort: port must be in range 0-65535")
	}
	return func(c *config) { c.port = port }
}

// WithStartTimeout bounds how long Start waits for the serve loop to accept connections.
func WithStartTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithStartTimeout: duration must be > 0")
	}
	return func(c *config) { c.startTimeout = d }
}

// WithReadHeaderTimeout sets the amount of time allowed to read request headers.
func WithReadHeaderTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithReadHeaderTimeout: duration must be > 0")
	}
	return func(c *config) { c.readHeaderTimeout = d }
}

// WithIdleTimeout sets the maximum amount of time to wait for the next request when keep-alives are enabled.
func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithIdleTimeout: duration must be > 0")
	}
	return func(c *config) { c.idleTimeout = d }
}

// WithShutdownTimeout sets the time allowed for graceful shutdown.
// Connections still open after it elapses are closed forcibly.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithLogger supplies an external slog.Logger instance. If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook registers a callback that runs on the serve goroutine right
// before it begins accepting connections. Start waits for all hooks, so a
// slow hook counts against the start timeout.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(c *config) {
		c.startHooks = append(c.startHooks, h)
	}
}

// WithStopHook registers a callback that runs after the server shuts down.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(c *config) {
		c.stopHooks = append(c.stopHooks, h)
	}
}
