package serve

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

// throttledWriter paces body writes through a token bucket, splitting each
// write into pieces no larger than the burst.
type throttledWriter struct {
	http.ResponseWriter
	ctx     context.Context
	limiter *rate.Limiter
}

func newThrottledWriter(ctx context.Context, w http.ResponseWriter, limit rate.Limit, burst int) *throttledWriter {
	return &throttledWriter{
		ResponseWriter: w,
		ctx:            ctx,
		limiter:        rate.NewLimiter(limit, burst),
	}
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	var written int
	for len(p) > 0 {
		n := min(len(p), t.limiter.Burst())
		if err := t.limiter.WaitN(t.ctx, n); err != nil {
			return written, err
		}
		m, err := t.ResponseWriter.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

func (t *throttledWriter) Unwrap() http.ResponseWriter { return t.ResponseWriter }
