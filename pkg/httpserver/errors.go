package httpserver

import "errors"

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrStartTimeout indicates that the serve loop did not report readiness in time.
	// It is always joined with ErrStart.
	ErrStartTimeout = errors.New("timed out waiting for HTTP server to accept connections")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrNotRunning is returned by accessors that need a running server.
	ErrNotRunning = errors.New("HTTP server is not running")
)
