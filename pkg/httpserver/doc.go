// Package httpserver runs an http.Handler on a background goroutine with an
// explicit, restartable lifecycle.
//
// A Server moves through three states:
//
//	Stopped -> Starting -> Running -> Stopped
//
// Start binds the listener (a free port when none is configured), launches
// http.Server.Serve on its own goroutine and blocks until the serve loop is
// accepting connections. If that does not happen within the start timeout
// Start returns ErrStartTimeout joined with ErrStart, closes the listener and
// leaves the server Stopped. Start on a running server and Stop on a stopped
// server are no-ops, and both may be called from any goroutine.
//
// Stop shuts down gracefully within the shutdown timeout and then closes
// remaining connections forcibly. Run is the blocking form: it starts the
// server and waits for context cancellation or SIGINT/SIGTERM before
// stopping it.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(slog.Default()))
//
//	srv := httpserver.New(r,
//		httpserver.WithHost("127.0.0.1"),
//		httpserver.WithStartTimeout(time.Second),
//	)
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
//	defer srv.Stop(context.Background())
//
//	port, _ := srv.Port()
//
// # Errors
//
// Start wraps listen and readiness errors with ErrStart, Stop wraps shutdown
// errors with ErrShutdown and Port returns ErrNotRunning for a server that is
// not running. Use errors.Is to distinguish them.
package httpserver
