package byterange

import (
	"fmt"
	"strconv"
	"strings"
)

const unit = "bytes"

// Range is an inclusive byte window. Start <= End always holds for values
// returned by Parse and Full.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the value of the Content-Range response header.
func (r Range) ContentRange(total int64) string {
	return fmt.Sprintf("%s %d-%d/%d", unit, r.Start, r.End, total)
}

// Unsatisfied formats the Content-Range value sent with a 416 response.
func Unsatisfied(total int64) string {
	return fmt.Sprintf("%s */%d", unit, total)
}

// Full returns the range covering total bytes. The result is meaningless for
// empty content; check total before using it.
func Full(total int64) Range {
	return Range{Start: 0, End: total - 1}
}

// Parse resolves a Range header against the total content length.
// The end offset is clamped to total-1. A single trailing comma is tolerated,
// any additional range is rejected with ErrMalformedRange.
func Parse(header string, total int64) (Range, error) {
	spec, err := split(header)
	if err != nil {
		return Range{}, err
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: missing '-' in %q", ErrMalformedRange, header)
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" {
		return suffix(endStr, total, header)
	}

	start, err := offset(startStr, header)
	if err != nil {
		return Range{}, err
	}

	end := total - 1
	if endStr != "" {
		end, err = offset(endStr, header)
		if err != nil {
			return Range{}, err
		}
		if end < start {
			return Range{}, fmt.Errorf("%w: end %d before start %d", ErrUnsatisfiableRange, end, start)
		}
	}

	if start >= total {
		return Range{}, fmt.Errorf("%w: start %d beyond length %d", ErrUnsatisfiableRange, start, total)
	}
	if end > total-1 {
		end = total - 1
	}

	return Range{Start: start, End: end}, nil
}

// split validates the unit and returns the single range-spec after '='.
func split(header string) (string, error) {
	h := strings.TrimSpace(header)
	name, spec, ok := strings.Cut(h, "=")
	if !ok || !strings.EqualFold(strings.TrimSpace(name), unit) {
		return "", fmt.Errorf("%w: unsupported unit in %q", ErrMalformedRange, header)
	}

	spec = strings.TrimSpace(spec)
	spec = strings.TrimSuffix(spec, ",")
	if strings.Contains(spec, ",") {
		return "", fmt.Errorf("%w: multiple ranges in %q", ErrMalformedRange, header)
	}
	if spec == "" {
		return "", fmt.Errorf("%w: empty range in %q", ErrMalformedRange, header)
	}

	return spec, nil
}

// suffix resolves the "bytes=-N" form.
func suffix(nStr string, total int64, header string) (Range, error) {
	if nStr == "" {
		return Range{}, fmt.Errorf("%w: empty range in %q", ErrMalformedRange, header)
	}
	n, err := offset(nStr, header)
	if err != nil {
		return Range{}, err
	}
	if n == 0 || total == 0 {
		return Range{}, fmt.Errorf("%w: zero-length suffix", ErrUnsatisfiableRange)
	}
	if n > total {
		n = total
	}

	return Range{Start: total - n, End: total - 1}, nil
}

func offset(s, header string) (int64, error) {
	// ParseInt would accept a sign; Range offsets are plain digits.
	if s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("%w: invalid offset in %q", ErrMalformedRange, header)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid offset in %q", ErrMalformedRange, header)
	}
	return v, nil
}
