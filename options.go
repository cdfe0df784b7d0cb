package bgserve

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/bgserve/pkg/httpserver"
	"github.com/dmitrymomot/bgserve/pkg/resource"
)

const (
	// DefaultMount is the path prefix resources are served under.
	DefaultMount = "/resources"
	// DefaultPublicHost is the host placed in direct resource URLs.
	DefaultPublicHost = "localhost"

	jupyterHubPrefixEnv = "JUPYTERHUB_SERVICE_PREFIX"
)

// Option configures a Provider.
type Option func(*options)

type options struct {
	proxy          bool
	publicHost     string
	mount          string
	allowedOrigins []string
	rateLimit      int
	hubPrefix      string
	hubPrefixSet   bool
	serverOpts     []httpserver.Option
	objects        resource.ObjectClient
	logger         *slog.Logger
}

// WithProxy makes URLs relative to jupyter-server-proxy: /proxy/<port>/...
func WithProxy(proxy bool) Option {
	return func(o *options) { o.proxy = proxy }
}

// WithPublicHost sets the host used in direct URLs.
func WithPublicHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.publicHost = host
		}
	}
}

// WithMount sets the path prefix resources are served under.
func WithMount(mount string) Option {
	return func(o *options) { o.mount = normalizeMount(mount) }
}

// WithAllowedOrigins sets the CORS origin allow list. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.allowedOrigins = origins
		}
	}
}

// WithRateLimit caps the bandwidth of every response body in bytes per second.
func WithRateLimit(bytesPerSecond int) Option {
	return func(o *options) { o.rateLimit = bytesPerSecond }
}

// WithJupyterHubPrefix overrides the JUPYTERHUB_SERVICE_PREFIX environment
// variable. An empty prefix disables hub URLs.
func WithJupyterHubPrefix(prefix string) Option {
	return func(o *options) {
		o.hubPrefix = prefix
		o.hubPrefixSet = prefix != ""
	}
}

// WithServerOptions passes options through to the background server.
func WithServerOptions(opts ...httpserver.Option) Option {
	return func(o *options) { o.serverOpts = append(o.serverOpts, opts...) }
}

// WithObjectClient enables CreateObject using client.
func WithObjectClient(client resource.ObjectClient) Option {
	return func(o *options) { o.objects = client }
}

// WithLogger supplies an external slog.Logger instance. If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// normalizeMount yields "/" or a path with a leading and no trailing slash.
func normalizeMount(mount string) string {
	mount = strings.Trim(strings.TrimSpace(mount), "/")
	if mount == "" {
		return "/"
	}
	return "/" + mount
}
