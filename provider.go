package bgserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/bgserve/pkg/httpserver"
	"github.com/dmitrymomot/bgserve/pkg/logger"
	"github.com/dmitrymomot/bgserve/pkg/registry"
	"github.com/dmitrymomot/bgserve/pkg/resource"
	"github.com/dmitrymomot/bgserve/pkg/serve"
	"github.com/dmitrymomot/bgserve/pkg/tileset"
)

// Provider serves resources and tilesets from a background HTTP server and
// hands out their URLs. The server starts on the first Create call.
type Provider struct {
	opts      options
	log       *slog.Logger
	resources *registry.Registry[resource.Resource]
	tilesets  *registry.Registry[*tileset.Resource]
	server    *httpserver.Server
	handler   http.Handler
}

// Handle is a registered resource together with its URL.
type Handle struct {
	resource.Resource
	URL string
}

// TilesetHandle is a registered tileset together with the tileset API base
// URL HiGlass should be pointed at.
type TilesetHandle struct {
	*tileset.Resource
	Server string
}

// New creates a stopped Provider.
func New(opts ...Option) *Provider {
	o := options{
		publicHost:     DefaultPublicHost,
		mount:          DefaultMount,
		allowedOrigins: []string{"*"},
	}
	if prefix, ok := os.LookupEnv(jupyterHubPrefixEnv); ok {
		o.hubPrefix, o.hubPrefixSet = prefix, true
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Discard()
	}

	p := &Provider{
		opts:      o,
		log:       o.logger.With(logger.Component("provider")),
		resources: registry.New[resource.Resource](),
		tilesets:  registry.New[*tileset.Resource](),
	}
	p.handler = p.routes()
	serverOpts := append([]httpserver.Option{httpserver.WithLogger(o.logger)}, o.serverOpts...)
	p.server = httpserver.New(p.handler, serverOpts...)
	return p
}

func (p *Provider) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: p.opts.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Accept-Ranges", "Content-Length", "Content-Range", serve.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", httpserver.HealthCheckHandler(p.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(p.log, p.checkSources))
	r.Mount(strings.TrimSuffix(tileset.MountPath, "/"), tileset.NewHandler(p.tilesets, p.opts.logger))

	serveOpts := []serve.Option{serve.WithLogger(p.opts.logger)}
	if p.opts.rateLimit > 0 {
		serveOpts = append(serveOpts, serve.WithRateLimit(p.opts.rateLimit, 0))
	}
	r.Mount(p.opts.mount, serve.NewHandler(p.resources, serveOpts...))
	return r
}

// Handler returns the root handler, for mounting the provider in another server.
func (p *Provider) Handler() http.Handler { return p.handler }

// Start starts the background server. It is a no-op when already running.
func (p *Provider) Start(ctx context.Context) error { return p.server.Start(ctx) }

// Stop stops the background server. Registered resources survive and are
// served again after the next Start.
func (p *Provider) Stop(ctx context.Context) error { return p.server.Stop(ctx) }

// Close stops the server and drops every registered resource and tileset.
func (p *Provider) Close(ctx context.Context) error {
	err := p.server.Stop(ctx)
	p.resources.Clear()
	p.tilesets.Clear()
	return err
}

// Port returns the port of the running server.
func (p *Provider) Port() (int, error) { return p.server.Port() }

// State reports the background server state.
func (p *Provider) State() httpserver.State { return p.server.State() }

// URL returns the externally visible base URL:
//
//	/proxy/<port>                    with WithProxy
//	<hub prefix>/proxy/<port>        under JupyterHub
//	http://<public host>:<port>      otherwise
func (p *Provider) URL() (string, error) {
	port, err := p.server.Port()
	if err != nil {
		return "", err
	}
	switch {
	case p.opts.proxy:
		return "/proxy/" + strconv.Itoa(port), nil
	case p.opts.hubPrefixSet:
		return strings.TrimSuffix(p.opts.hubPrefix, "/") + "/proxy/" + strconv.Itoa(port), nil
	default:
		return "http://" + net.JoinHostPort(p.opts.publicHost, strconv.Itoa(port)), nil
	}
}

// ResourceURL returns the URL of the resource registered under id.
func (p *Provider) ResourceURL(id string) (string, error) {
	base, err := p.URL()
	if err != nil {
		return "", err
	}
	if p.opts.mount == "/" {
		return base + "/" + id, nil
	}
	return base + p.opts.mount + "/" + id, nil
}

// TilesetServerURL returns the tileset API base URL.
func (p *Provider) TilesetServerURL() (string, error) {
	base, err := p.URL()
	if err != nil {
		return "", err
	}
	return base + tileset.MountPath, nil
}

// Create registers the file or directory at path.
func (p *Provider) Create(ctx context.Context, path string, opts ...resource.Option) (*Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
		}
		return nil, err
	}
	switch {
	case info.IsDir():
		return p.CreateDirectory(ctx, path, opts...)
	case info.Mode().IsRegular():
		return p.CreateFile(ctx, path, opts...)
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedSource, path, info.Mode().Type())
	}
}

// CreateFile registers a single regular file.
func (p *Provider) CreateFile(ctx context.Context, path string, opts ...resource.Option) (*Handle, error) {
	res, err := resource.NewFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return p.add(ctx, res)
}

// CreateDirectory registers a directory; files below it are served by relative path.
func (p *Provider) CreateDirectory(ctx context.Context, root string, opts ...resource.Option) (*Handle, error) {
	res, err := resource.NewDirectory(root, opts...)
	if err != nil {
		return nil, err
	}
	return p.add(ctx, res)
}

// CreateContent registers an in-memory payload. ext selects the media type
// and defaults to .bin.
func (p *Provider) CreateContent(ctx context.Context, payload []byte, ext string, opts ...resource.Option) (*Handle, error) {
	return p.add(ctx, resource.NewContent(payload, ext, opts...))
}

// CreateString registers text content. ext defaults to .txt.
func (p *Provider) CreateString(ctx context.Context, payload, ext string, opts ...resource.Option) (*Handle, error) {
	return p.add(ctx, resource.NewString(payload, ext, opts...))
}

// CreateObject registers an object from the configured object store.
func (p *Provider) CreateObject(ctx context.Context, bucket, key string, opts ...resource.Option) (*Handle, error) {
	if p.opts.objects == nil {
		return nil, ErrObjectStoreDisabled
	}
	res, err := resource.NewObject(p.opts.objects, bucket, key, opts...)
	if err != nil {
		return nil, err
	}
	return p.add(ctx, res)
}

// CreateTileset registers ts under uid, or under its identity when uid is empty.
func (p *Provider) CreateTileset(ctx context.Context, ts tileset.Tileset, uid string) (*TilesetHandle, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil tileset", ErrUnsupportedSource)
	}
	tr := tileset.NewResource(ts, uid)
	res, _ := p.tilesets.Register(tr.UID, tr)
	if err := p.server.Start(ctx); err != nil {
		return nil, err
	}
	server, err := p.TilesetServerURL()
	if err != nil {
		return nil, err
	}
	p.log.DebugContext(ctx, "tileset registered", slog.String("uid", res.UID))
	return &TilesetHandle{Resource: res, Server: server}, nil
}

// Resources returns a snapshot of the registered resources keyed by id.
func (p *Provider) Resources() map[string]resource.Resource { return p.resources.All() }

// Tilesets returns a snapshot of the registered tilesets keyed by uid.
func (p *Provider) Tilesets() map[string]*tileset.Resource { return p.tilesets.All() }

// checkSources reports the first registered file or directory that is no
// longer present on disk.
func (p *Provider) checkSources(ctx context.Context) error {
	for id, res := range p.resources.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var path string
		switch r := res.(type) {
		case *resource.File:
			path = r.Path()
		case *resource.Directory:
			path = r.Root()
		default:
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("resource %s: %w", id, err)
		}
	}
	return nil
}

// add registers res, starts the server and returns the handle. Registering
// an identifier twice keeps the first resource.
func (p *Provider) add(ctx context.Context, res resource.Resource) (*Handle, error) {
	actual, existed := p.resources.Register(res.ID(), res)
	if err := p.server.Start(ctx); err != nil {
		return nil, err
	}
	url, err := p.ResourceURL(actual.ID())
	if err != nil {
		return nil, err
	}
	if !existed {
		p.log.DebugContext(ctx, "resource registered",
			logger.ResourceID(actual.ID()),
			slog.String("kind", string(actual.Kind())),
		)
	}
	return &Handle{Resource: actual, URL: url}, nil
}
