package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bgserve"
	"github.com/dmitrymomot/bgserve/pkg/config"
	"github.com/dmitrymomot/bgserve/pkg/logger"
	"github.com/dmitrymomot/bgserve/pkg/serve"
)

const closeTimeout = 5 * time.Second

type serveFlags struct {
	host       string
	port       int
	publicHost string
	proxy      bool
	manifest   string
	rateLimit  int
	logLevel   string
	logFormat  string
}

func newServeCommand() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Serve paths and manifest entries until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.host, "host", "", "Interface to bind (default from BGSERVE_HTTP_HOST or 127.0.0.1)")
	flags.IntVar(&f.port, "port", 0, "Port to listen on; 0 picks a free port")
	flags.StringVar(&f.publicHost, "public-host", "", "Host placed in printed URLs")
	flags.BoolVar(&f.proxy, "proxy", false, "Print jupyter-server-proxy relative URLs")
	flags.StringVar(&f.manifest, "manifest", "", "YAML manifest of resources to serve")
	flags.IntVar(&f.rateLimit, "rate-limit", 0, "Cap each response in bytes per second; 0 is unlimited")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flags.StringVar(&f.logFormat, "log-format", "text", "Log format: text|json")
	return cmd
}

func runServe(cmd *cobra.Command, f serveFlags, args []string) error {
	ctx := cmd.Context()

	var cfg bgserve.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.HTTP.Host = f.host
	}
	if flags.Changed("port") {
		if f.port < 0 || f.port > 65535 {
			return fmt.Errorf("invalid --port %d", f.port)
		}
		cfg.HTTP.Port = f.port
	}
	if flags.Changed("public-host") {
		cfg.PublicHost = f.publicHost
	}
	if flags.Changed("proxy") {
		cfg.Proxy = f.proxy
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = f.rateLimit
	}

	log, err := newLogger(cmd, f)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(args))
	for _, path := range args {
		entries = append(entries, Entry{Path: path})
	}
	if f.manifest != "" {
		m, err := LoadManifest(f.manifest)
		if err != nil {
			return err
		}
		entries = append(entries, m.Resources...)
	}
	if len(entries) == 0 {
		return ErrNothingToServe
	}

	p, err := bgserve.NewFromConfig(ctx, cfg, bgserve.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := p.Close(closeCtx); err != nil {
			log.Error("shutdown failed", logger.Error(err))
		}
	}()

	for _, e := range entries {
		h, err := e.Create(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h.URL)
	}

	base, _ := p.URL()
	log.InfoContext(ctx, "serving", slog.Int("resources", len(p.Resources())), slog.String("url", base))

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

func newLogger(cmd *cobra.Command, f serveFlags) (*slog.Logger, error) {
	level, err := logger.ParseLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(serve.RequestIDExtractor),
		logger.WithAttr(slog.String("service", "bgserve")),
	}
	switch f.logFormat {
	case "text":
		opts = append(opts, logger.WithTextFormatter())
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	default:
		return nil, fmt.Errorf("invalid --log-format %q; use text|json", f.logFormat)
	}
	return logger.New(opts...), nil
}
