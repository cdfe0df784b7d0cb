package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/bgserve/pkg/guid"
	"github.com/dmitrymomot/bgserve/pkg/mediatype"
)

// Directory serves the files below a root directory. Directory listings are
// not produced; only regular files can be fetched.
type Directory struct {
	base
	root string
}

// NewDirectory creates a resource for the directory at root. Symlinks in root
// are resolved once so that containment checks compare canonical paths.
func NewDirectory(root string, opts ...Option) (*Directory, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	return &Directory{
		base: base{
			id:   guid.DeriveString(filepath.ToSlash(abs), filepath.Base(abs)),
			opts: newOptions(opts),
		},
		root: abs,
	}, nil
}

func (d *Directory) Kind() Kind { return KindDirectory }

// Root returns the canonical root directory.
func (d *Directory) Root() string { return d.root }

// Respond serves the file at subPath below the root. Paths that escape the
// root, do not exist or name a directory all yield ErrNotFound.
func (d *Directory) Respond(ctx context.Context, subPath, rangeHeader string) (*Response, error) {
	if strings.Trim(subPath, "/") == "" {
		return nil, ErrSubPathRequired
	}

	path, err := d.resolve(subPath)
	if err != nil {
		return nil, err
	}

	return serveFile(ctx, path, rangeHeader, d.mediaTypeOr(mediatype.Guess(path)), d.opts)
}

// resolve maps a request sub-path to a canonical path inside the root.
// The path is cleaned as if rooted, so ".." can never climb above the root,
// and symlinks are evaluated before the containment check.
func (d *Directory) resolve(subPath string) (string, error) {
	if strings.ContainsRune(subPath, 0) {
		return "", ErrNotFound
	}

	cleaned := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(subPath))
	candidate := filepath.Join(d.root, cleaned)

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", ErrNotFound
	}
	if !d.contains(resolved) {
		return "", ErrNotFound
	}

	return resolved, nil
}

func (d *Directory) contains(path string) bool {
	return path == d.root || strings.HasPrefix(path, d.root+string(filepath.Separator))
}
