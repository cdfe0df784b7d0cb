package httpserver

import (
	"net/http"
	"time"
)

type Config struct {
	Host              string        `env:"HTTP_HOST" envDefault:"127.0.0.1"`          // Host is the interface the server binds to.
	Port              int           `env:"HTTP_PORT" envDefault:"0"`                  // Port to listen on; 0 picks a free port.
	StartTimeout      time.Duration `env:"HTTP_START_TIMEOUT" envDefault:"1s"`        // StartTimeout bounds how long Start waits for readiness.
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"` // ReadHeaderTimeout is the time allowed to read request headers.
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"5s"`         // IdleTimeout is the keep-alive timeout.
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`     // ShutdownTimeout is the time allowed for graceful shutdown.
}

// Options converts the non-zero fields of cfg into options.
func (cfg Config) Options() []Option {
	opts := make([]Option, 0, 6)

	if cfg.Host != "" {
		opts = append(opts, WithHost(cfg.Host))
	}
	if cfg.Port > 0 {
		opts = append(opts, WithPort(cfg.Port))
	}
	if cfg.StartTimeout > 0 {
		opts = append(opts, WithStartTimeout(cfg.StartTimeout))
	}
	if cfg.ReadHeaderTimeout > 0 {
		opts = append(opts, WithReadHeaderTimeout(cfg.ReadHeaderTimeout))
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		opts = append(opts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	return opts
}

// NewFromConfig creates a new Server from the provided Config.
// Only non-zero values from the config are applied; opts are applied after them.
func NewFromConfig(handler http.Handler, cfg Config, opts ...Option) *Server {
	return New(handler, append(cfg.Options(), opts...)...)
}
