package resource

import (
	"context"
	"maps"
)

// Kind identifies the resource variant.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindContent   Kind = "content"
	KindObject    Kind = "object"
)

// DefaultChunkSize bounds the size of a single body read.
const DefaultChunkSize = 64 << 10

// Resource is a servable entity registered under a stable identifier.
// The set of implementations is closed to this package.
type Resource interface {
	// ID returns the content-addressed identifier.
	ID() string
	// Kind returns the variant.
	Kind() Kind
	// Headers returns a copy of the extra response headers.
	Headers() map[string]string
	// Respond resolves a request for subPath (empty when absent) and the raw
	// Range header (empty when absent) into a response.
	Respond(ctx context.Context, subPath, rangeHeader string) (*Response, error)

	sealed()
}

// Option configures a resource at construction time.
type Option func(*options)

type options struct {
	headers   map[string]string
	mediaType string
	chunkSize int
}

// WithHeaders adds headers to every response. They are applied last, so a
// Content-Type entry overrides the inferred media type.
func WithHeaders(h map[string]string) Option {
	return func(o *options) {
		if len(h) == 0 {
			return
		}
		if o.headers == nil {
			o.headers = make(map[string]string, len(h))
		}
		maps.Copy(o.headers, h)
	}
}

// WithMediaType overrides media type inference.
func WithMediaType(t string) Option {
	return func(o *options) { o.mediaType = t }
}

// WithChunkSize sets the maximum size of a single body read.
// Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base carries the fields shared by every variant.
type base struct {
	id   string
	opts options
}

func (b *base) ID() string { return b.id }

func (b *base) Headers() map[string]string { return maps.Clone(b.opts.headers) }

func (b *base) mediaTypeOr(guess string) string {
	if b.opts.mediaType != "" {
		return b.opts.mediaType
	}
	return guess
}

func (b *base) sealed() {}
