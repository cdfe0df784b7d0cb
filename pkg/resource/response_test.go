package resource_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bgserve/pkg/resource"
)

func TestResponseSend(t *testing.T) {
	t.Parallel()
	res := resource.NewString("hello, world", ".txt")

	resp, err := res.Respond(context.Background(), "", "bytes=0-4")
	require.NoError(t, err)
	defer resp.Close()

	rec := httptest.NewRecorder()
	n, err := resp.Send(rec, true)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "bytes 0-4/12", rec.Header().Get("Content-Range"))
}

func TestResponseSendWithoutBody(t *testing.T) {
	t.Parallel()
	res := resource.NewString("hello, world", ".txt")

	resp, err := res.Respond(context.Background(), "", "")
	require.NoError(t, err)
	defer resp.Close()

	rec := httptest.NewRecorder()
	n, err := resp.Send(rec, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestBodyChunksAreBounded(t *testing.T) {
	t.Parallel()
	payload := strings.Repeat("x", 10_000)
	res := resource.NewString(payload, ".txt", resource.WithChunkSize(1024))

	resp, err := res.Respond(context.Background(), "", "bytes=100-8099")
	require.NoError(t, err)
	defer resp.Close()

	var out bytes.Buffer
	buf := make([]byte, 4096)
	reads := 0
	for {
		n, err := resp.Body.Read(buf)
		assert.LessOrEqual(t, n, 1024)
		out.Write(buf[:n])
		reads++
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, 8000, out.Len())
	assert.GreaterOrEqual(t, reads, 8)

	// Exhausted stream stays exhausted.
	n, err := resp.Body.Read(buf)
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestBodyStopsOnCancel(t *testing.T) {
	t.Parallel()
	res := resource.NewString(strings.Repeat("y", 4096), ".txt", resource.WithChunkSize(16))
	ctx, cancel := context.WithCancel(context.Background())

	resp, err := res.Respond(ctx, "", "")
	require.NoError(t, err)
	defer resp.Close()

	buf := make([]byte, 16)
	_, err = resp.Body.Read(buf)
	require.NoError(t, err)

	cancel()
	_, err = resp.Body.Read(buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBodyCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "a.txt", "abc")
	res, err := resource.NewFile(path)
	require.NoError(t, err)

	resp, err := res.Respond(context.Background(), "", "")
	require.NoError(t, err)
	require.NoError(t, resp.Close())
	require.NoError(t, resp.Close())

	n, err := resp.Body.Read(make([]byte, 3))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestSendUsesChunkedWrites(t *testing.T) {
	t.Parallel()
	res := resource.NewString(strings.Repeat("z", 5000), ".txt", resource.WithChunkSize(1000))
	resp, err := res.Respond(context.Background(), "", "")
	require.NoError(t, err)
	defer resp.Close()

	w := &recordingWriter{ResponseRecorder: httptest.NewRecorder()}
	n, err := resp.Send(w, true)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), n)
	for _, size := range w.writes {
		assert.LessOrEqual(t, size, 1000)
	}
	assert.Len(t, w.writes, 5)
}

type recordingWriter struct {
	*httptest.ResponseRecorder
	writes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.ResponseRecorder.Write(p)
}
