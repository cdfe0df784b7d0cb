package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrymomot/bgserve/pkg/logger"
)

type config struct {
	host              string
	port              int
	startTimeout      time.Duration
	readHeaderTimeout time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	startHooks        []func(*slog.Logger)
	stopHooks         []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		host:              "127.0.0.1",
		startTimeout:      time.Second,
		readHeaderTimeout: 10 * time.Second,
		idleTimeout:       5 * time.Second,
		shutdownTimeout:   5 * time.Second,
	}
}

// Server runs an http.Handler on a background goroutine. It moves through
// Stopped -> Starting -> Running -> Stopped, and both Start and Stop are
// idempotent. A stopped server can be started again.
type Server struct {
	cfg     *config
	handler http.Handler

	mu    sync.Mutex // serializes Start and Stop
	srv   *http.Server
	done  chan struct{}
	state atomic.Int32
	port  atomic.Int32
}

// New returns a configured Server for handler. A nil handler answers 404 to everything.
func New(handler http.Handler, opts ...Option) *Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}
	return &Server{cfg: cfg, handler: handler}
}

// State reports the current lifecycle state.
func (s *Server) State() State { return State(s.state.Load()) }

// Port returns the bound port of a running server.
func (s *Server) Port() (int, error) {
	if s.State() != StateRunning {
		return 0, ErrNotRunning
	}
	return int(s.port.Load()), nil
}

// Addr returns host:port of a running server, or an empty string.
func (s *Server) Addr() string {
	port, err := s.Port()
	if err != nil {
		return ""
	}
	return net.JoinHostPort(s.cfg.host, strconv.Itoa(port))
}

// Start binds the listener and launches the serve loop. It blocks until the
// loop is accepting connections, the start timeout elapses or ctx is done.
// Calling Start on a running server is a no-op.
// On failure the server is left Stopped and nothing keeps listening.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateRunning {
		return nil
	}
	s.state.Store(int32(StateStarting))

	cfg := s.cfg
	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port)))
	if err != nil {
		s.state.Store(int32(StateStopped))
		return errors.Join(ErrStart, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	ready := make(chan struct{})
	var readyOnce sync.Once
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.readHeaderTimeout,
		IdleTimeout:       cfg.idleTimeout,
		ErrorLog:          slog.NewLogLogger(cfg.logger.Handler(), slog.LevelWarn),
		BaseContext: func(net.Listener) context.Context {
			readyOnce.Do(func() { close(ready) })
			return context.Background()
		},
	}

	done := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(done)
		for _, h := range cfg.startHooks {
			h(cfg.logger)
		}
		errCh <- srv.Serve(ln)
	}()

	timer := time.NewTimer(cfg.startTimeout)
	defer timer.Stop()

	var startErr error
	select {
	case <-ready:
	case err := <-errCh:
		startErr = errors.Join(ErrStart, err)
	case <-timer.C:
		startErr = errors.Join(ErrStart, ErrStartTimeout)
	case <-ctx.Done():
		startErr = errors.Join(ErrStart, ctx.Err())
	}

	if startErr != nil {
		// Close makes a late Serve call return immediately, so the
		// goroutine exits on its own once the hooks finish.
		_ = srv.Close()
		_ = ln.Close()
		s.state.Store(int32(StateStopped))
		cfg.logger.Error("http server failed to start",
			logger.Port(port),
			logger.Error(startErr),
		)
		return startErr
	}

	go func() {
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.logger.Error("http server stopped unexpectedly", logger.Error(err))
		}
	}()

	s.srv = srv
	s.done = done
	s.port.Store(int32(port))
	s.state.Store(int32(StateRunning))
	cfg.logger.Info("http server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully. Connections that outlive the
// shutdown timeout are closed forcibly. Calling Stop on a stopped server is a
// no-op. The server is Stopped when Stop returns, even if an error is
// returned; the error is ErrShutdown joined with the cause.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if err != nil {
		s.cfg.logger.Warn("forcing http server close", logger.Error(err))
		_ = s.srv.Close()
	}
	<-s.done

	s.srv = nil
	s.done = nil
	s.port.Store(0)
	s.state.Store(int32(StateStopped))

	for _, h := range s.cfg.stopHooks {
		h(s.cfg.logger)
	}
	s.cfg.logger.Info("http server stopped")

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

// Run starts the server and blocks until ctx is cancelled, an interrupt or
// TERM signal arrives, or the serve loop exits on its own; then it stops
// the server.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return fmt.Errorf("%w: stopped before Run could wait", ErrNotRunning)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-ctx.Done():
	case <-stop:
	case <-done:
	}
	return s.Stop(context.Background())
}
