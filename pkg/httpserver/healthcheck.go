package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/bgserve/pkg/logger"
)

// Check reports whether a dependency of the server is usable.
type Check func(ctx context.Context) error

// HealthCheckHandler answers liveness and readiness probes.
//
// Without checks it always answers 200 "ALIVE". With checks it runs each one
// against the request context and answers 200 "READY", or 503 "NOT_READY"
// after logging the first failure.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		if len(checks) == 0 {
			writeProbe(w, http.StatusOK, "ALIVE")
			return
		}
		for i, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", slog.Int("check", i), logger.Error(err))
				writeProbe(w, http.StatusServiceUnavailable, "NOT_READY")
				return
			}
		}
		writeProbe(w, http.StatusOK, "READY")
	}
}

func writeProbe(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
