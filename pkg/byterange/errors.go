package byterange

import "errors"

var (
	// ErrMalformedRange is returned for headers that are not a single "bytes" range.
	ErrMalformedRange = errors.New("malformed range header")
	// ErrUnsatisfiableRange is returned when the range does not overlap the content.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)
