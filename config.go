package bgserve

import (
	"context"
	"errors"

	"github.com/dmitrymomot/bgserve/pkg/httpserver"
	"github.com/dmitrymomot/bgserve/pkg/resource"
)

// Config holds environment-driven provider settings. Load it with config.Load.
type Config struct {
	Proxy            bool              `env:"BGSERVE_PROXY" envDefault:"false"`                        // Proxy rewrites URLs for jupyter-server-proxy.
	PublicHost       string            `env:"BGSERVE_PUBLIC_HOST" envDefault:"localhost"`              // PublicHost is the host placed in direct URLs.
	Mount            string            `env:"BGSERVE_MOUNT" envDefault:"/resources"`                   // Mount is the path prefix for resources.
	AllowedOrigins   []string          `env:"BGSERVE_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","` // AllowedOrigins is the CORS allow list.
	RateLimit        int               `env:"BGSERVE_RATE_LIMIT" envDefault:"0"`                       // RateLimit caps each response in bytes per second; 0 is unlimited.
	JupyterHubPrefix string            `env:"JUPYTERHUB_SERVICE_PREFIX"`                               // JupyterHubPrefix is set by JupyterHub for single-user servers.
	HTTP             httpserver.Config `envPrefix:"BGSERVE_"`
	S3               resource.S3Config `envPrefix:"BGSERVE_S3_"`
}

// NewFromConfig creates a Provider from cfg. An S3 client is built when
// cfg.S3.Region is set. opts are applied after the config values.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Provider, error) {
	configOpts := []Option{
		WithProxy(cfg.Proxy),
		WithServerOptions(cfg.HTTP.Options()...),
	}
	if cfg.PublicHost != "" {
		configOpts = append(configOpts, WithPublicHost(cfg.PublicHost))
	}
	if cfg.Mount != "" {
		configOpts = append(configOpts, WithMount(cfg.Mount))
	}
	if len(cfg.AllowedOrigins) > 0 {
		configOpts = append(configOpts, WithAllowedOrigins(cfg.AllowedOrigins...))
	}
	if cfg.RateLimit < 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("rate limit must not be negative"))
	}
	if cfg.RateLimit > 0 {
		configOpts = append(configOpts, WithRateLimit(cfg.RateLimit))
	}
	if cfg.JupyterHubPrefix != "" {
		configOpts = append(configOpts, WithJupyterHubPrefix(cfg.JupyterHubPrefix))
	}
	if cfg.S3.Region != "" {
		client, err := resource.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		configOpts = append(configOpts, WithObjectClient(client))
	}

	return New(append(configOpts, opts...)...), nil
}
