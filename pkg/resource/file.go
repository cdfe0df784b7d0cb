package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/bgserve/pkg/guid"
	"github.com/dmitrymomot/bgserve/pkg/mediatype"
)

// File serves a single regular file from disk.
type File struct {
	base
	path string
}

// NewFile creates a resource for the regular file at path. The identifier is
// derived from the absolute path and the base name, so the same file always
// maps to the same identifier.
func NewFile(path string, opts ...Option) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	return &File{
		base: base{
			id:   guid.DeriveString(filepath.ToSlash(abs), filepath.Base(abs)),
			opts: newOptions(opts),
		},
		path: abs,
	}, nil
}

func (f *File) Kind() Kind { return KindFile }

// Path returns the absolute path of the served file.
func (f *File) Path() string { return f.path }

// Respond serves the file. A non-empty subPath is rejected with ErrSubPathNotAllowed.
func (f *File) Respond(ctx context.Context, subPath, rangeHeader string) (*Response, error) {
	if subPath != "" {
		return nil, ErrSubPathNotAllowed
	}
	return serveFile(ctx, f.path, rangeHeader, f.mediaTypeOr(mediatype.Guess(f.path)), f.opts)
}

// serveFile opens path and returns a response streaming the requested window.
// The file handle is owned by the response body from then on.
func serveFile(ctx context.Context, path, rangeHeader, mediaType string, o options) (*Response, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	info, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if !info.Mode().IsRegular() {
		_ = fh.Close()
		return nil, ErrNotFound
	}

	total := info.Size()
	rng, partial, err := window(rangeHeader, total)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}

	if rng.Start > 0 {
		if _, err := fh.Seek(rng.Start, io.SeekStart); err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
	}

	return newResponse(ctx, fh, fh, rng, partial, total, mediaType, o), nil
}
