package bgserve

import "errors"

var (
	// ErrUnsupportedSource is returned by Create for paths that are neither regular files nor directories.
	ErrUnsupportedSource = errors.New("unsupported resource source")
	// ErrObjectStoreDisabled is returned by CreateObject when no object client is configured.
	ErrObjectStoreDisabled = errors.New("object store is not configured")
	// ErrInvalidConfig indicates a Config that cannot produce a Provider.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)
