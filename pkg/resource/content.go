package resource

import (
	"bytes"
	"context"
	"io"

	"github.com/dmitrymomot/bgserve/pkg/guid"
	"github.com/dmitrymomot/bgserve/pkg/mediatype"
)

const (
	// DefaultBytesExtension is used for byte payloads without an extension.
	DefaultBytesExtension = ".bin"
	// DefaultTextExtension is used for string payloads without an extension.
	DefaultTextExtension = ".txt"
)

// Content serves an in-memory payload. The payload is copied at construction
// and never modified afterwards.
type Content struct {
	base
	payload   []byte
	extension string
}

// NewContent creates a resource for payload. The extension (".csv", "json")
// drives media type inference and is part of the identifier; an empty
// extension defaults to DefaultBytesExtension.
func NewContent(payload []byte, extension string, opts ...Option) *Content {
	extension = normalizeExtension(extension, DefaultBytesExtension)
	data := bytes.Clone(payload)
	if data == nil {
		data = []byte{}
	}

	return &Content{
		base: base{
			id:   guid.Derive(data, "content"+extension),
			opts: newOptions(opts),
		},
		payload:   data,
		extension: extension,
	}
}

// NewString is NewContent for text; an empty extension defaults to ".txt".
func NewString(payload, extension string, opts ...Option) *Content {
	return NewContent([]byte(payload), normalizeExtension(extension, DefaultTextExtension), opts...)
}

func (c *Content) Kind() Kind { return KindContent }

// Extension returns the normalized extension including the dot.
func (c *Content) Extension() string { return c.extension }

// Size returns the payload length.
func (c *Content) Size() int { return len(c.payload) }

// Respond serves the payload. A non-empty subPath is rejected with ErrSubPathNotAllowed.
func (c *Content) Respond(ctx context.Context, subPath, rangeHeader string) (*Response, error) {
	if subPath != "" {
		return nil, ErrSubPathNotAllowed
	}

	total := int64(len(c.payload))
	rng, partial, err := window(rangeHeader, total)
	if err != nil {
		return nil, err
	}

	src := bytes.NewReader(c.payload)
	if rng.Start > 0 {
		_, _ = src.Seek(rng.Start, io.SeekStart)
	}

	return newResponse(ctx, src, nil, rng, partial, total, c.mediaTypeOr(mediatype.Guess(c.extension)), c.opts), nil
}

func normalizeExtension(ext, fallback string) string {
	if ext == "" {
		return fallback
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
