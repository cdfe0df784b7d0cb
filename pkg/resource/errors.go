package resource

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
	ErrSubPathNotAllowed   = errors.New("resource does not accept a sub-path")
	ErrSubPathRequired     = errors.New("directory resource requires a sub-path")

	// Construction errors
	ErrNotFile       = errors.New("path is not a regular file")
	ErrNotDirectory  = errors.New("path is not a directory")
	ErrInvalidPath   = errors.New("invalid path")
	ErrNilClient     = errors.New("object client is nil")
	ErrInvalidConfig = errors.New("invalid object store configuration")

	// I/O errors, reported as 500 by the HTTP layer
	ErrRead = errors.New("failed to read resource")
)

// RangeError reports a Range header that cannot be served for content of
// length Total. It matches ErrRangeNotSatisfiable and the underlying
// byterange error with errors.Is.
type RangeError struct {
	Total int64
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s (length %d): %v", ErrRangeNotSatisfiable, e.Total, e.Err)
}

func (e *RangeError) Unwrap() []error {
	return []error{ErrRangeNotSatisfiable, e.Err}
}
