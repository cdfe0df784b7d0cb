package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/dmitrymomot/bgserve/pkg/byterange"
)

// Response is the resolved answer to a resource request. Body yields exactly
// Length bytes and must be closed by the caller, even when it is not read.
type Response struct {
	Status int
	Header http.Header
	Length int64
	Body   io.ReadCloser
}

// Send writes headers and status to w and, when withBody is set, streams the
// body. It returns the number of body bytes written. Errors after the status
// line has been sent can only be handled by aborting the connection.
func (r *Response) Send(w http.ResponseWriter, withBody bool) (int64, error) {
	h := w.Header()
	for k, vs := range r.Header {
		h[k] = vs
	}
	w.WriteHeader(r.Status)

	if !withBody || r.Length == 0 {
		return 0, nil
	}

	n, err := io.Copy(w, r.Body)
	if err != nil {
		return n, err
	}
	if n != r.Length {
		return n, fmt.Errorf("%w: wrote %d of %d bytes", ErrRead, n, r.Length)
	}
	return n, nil
}

// Close releases the underlying file handle or network stream.
func (r *Response) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// window resolves the byte window for a request. partial reports whether a
// Range header was present, which selects 206 over 200.
func window(rangeHeader string, total int64) (rng byterange.Range, partial bool, err error) {
	if rangeHeader == "" {
		return byterange.Full(total), false, nil
	}
	rng, err = byterange.Parse(rangeHeader, total)
	if err != nil {
		return byterange.Range{}, true, &RangeError{Total: total, Err: err}
	}
	return rng, true, nil
}

// newResponse builds a response streaming rng from src, which must already be
// positioned at rng.Start.
func newResponse(ctx context.Context, src io.Reader, closer io.Closer, rng byterange.Range, partial bool, total int64, mediaType string, o options) *Response {
	status := http.StatusOK
	h := make(http.Header, 5)
	h.Set("Content-Type", mediaType)
	h.Set("Accept-Ranges", "bytes")
	if partial {
		status = http.StatusPartialContent
		h.Set("Content-Range", rng.ContentRange(total))
	}

	length := max(rng.Length(), 0)
	h.Set("Content-Length", strconv.FormatInt(length, 10))

	for k, v := range o.headers {
		h.Set(k, v)
	}

	return &Response{
		Status: status,
		Header: h,
		Length: length,
		Body:   newChunkReader(ctx, src, closer, length, o.chunkSize),
	}
}

// chunkReader is a finite, non-restartable stream over a byte window.
// Each Read returns at most chunk bytes, stops at the window end and fails
// once ctx is done, so a disconnected client stops further reads.
type chunkReader struct {
	ctx       context.Context
	src       io.Reader
	closer    io.Closer
	remaining int64
	chunk     int
	closeOnce sync.Once
	closeErr  error
}

func newChunkReader(ctx context.Context, src io.Reader, closer io.Closer, length int64, chunk int) *chunkReader {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &chunkReader{ctx: ctx, src: src, closer: closer, remaining: length, chunk: chunk}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, io.EOF
	}
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := int64(min(len(p), c.chunk))
	n = min(n, c.remaining)

	read, err := c.src.Read(p[:n])
	c.remaining -= int64(read)

	switch {
	case err == nil:
		return read, nil
	case errors.Is(err, io.EOF):
		if c.remaining > 0 {
			// Source ended before the advertised length: the file shrank.
			return read, fmt.Errorf("%w: %w", ErrRead, io.ErrUnexpectedEOF)
		}
		return read, io.EOF
	default:
		return read, fmt.Errorf("%w: %w", ErrRead, err)
	}
}

// WriteTo streams the window chunk by chunk through a single buffer.
func (c *chunkReader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, int(min(int64(c.chunk), max(c.remaining, 1))))
	var total int64
	for {
		n, err := c.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func (c *chunkReader) Close() error {
	c.closeOnce.Do(func() {
		c.remaining = 0
		if c.closer != nil {
			c.closeErr = c.closer.Close()
		}
	})
	return c.closeErr
}
