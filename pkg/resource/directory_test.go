package resource_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bgserve/pkg/resource"
)

func newDataDir(t *testing.T) (string, string) {
	t.Helper()
	parent := t.TempDir()
	root := filepath.Join(parent, "data_dir")
	writeFile(t, root, "hello.txt", "hello, world")
	writeFile(t, root, "nested_dir/foo.txt", "foo")
	writeFile(t, parent, "secret.txt", "top secret")
	return parent, root
}

func TestNewDirectory(t *testing.T) {
	t.Parallel()
	parent, root := newDataDir(t)

	res, err := resource.NewDirectory(root)
	require.NoError(t, err)
	assert.Equal(t, resource.KindDirectory, res.Kind())
	assert.Contains(t, res.ID(), "-data_dir")

	_, err = resource.NewDirectory(filepath.Join(parent, "secret.txt"))
	assert.ErrorIs(t, err, resource.ErrNotDirectory)

	_, err = resource.NewDirectory(filepath.Join(parent, "nope"))
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestDirectoryRespond(t *testing.T) {
	t.Parallel()
	_, root := newDataDir(t)
	res, err := resource.NewDirectory(root)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("top level file", func(t *testing.T) {
		resp, err := res.Respond(ctx, "hello.txt", "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		assert.Equal(t, "hello, world", readBody(t, resp))
	})

	t.Run("nested file", func(t *testing.T) {
		resp, err := res.Respond(ctx, "nested_dir/foo.txt", "")
		require.NoError(t, err)
		assert.Equal(t, "foo", readBody(t, resp))
	})

	t.Run("ranged file", func(t *testing.T) {
		resp, err := res.Respond(ctx, "/hello.txt", "bytes=7-")
		require.NoError(t, err)
		assert.Equal(t, http.StatusPartialContent, resp.Status)
		assert.Equal(t, "bytes 7-11/12", resp.Header.Get("Content-Range"))
		assert.Equal(t, "world", readBody(t, resp))
	})

	t.Run("unsatisfiable range", func(t *testing.T) {
		_, err := res.Respond(ctx, "hello.txt", "bytes=50-")
		assert.ErrorIs(t, err, resource.ErrRangeNotSatisfiable)
	})

	notFound := []string{
		"missing.txt",
		"nested_dir",
		"../secret.txt",
		"../../etc/passwd",
		"nested_dir/../../secret.txt",
		"..\\secret.txt",
	}
	for _, sub := range notFound {
		t.Run("not found "+sub, func(t *testing.T) {
			resp, err := res.Respond(ctx, sub, "")
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, resource.ErrNotFound)
		})
	}

	t.Run("sub-path required", func(t *testing.T) {
		_, err := res.Respond(ctx, "", "")
		assert.ErrorIs(t, err, resource.ErrSubPathRequired)
		_, err = res.Respond(ctx, "/", "")
		assert.ErrorIs(t, err, resource.ErrSubPathRequired)
	})
}

func TestDirectorySymlinkEscape(t *testing.T) {
	t.Parallel()
	parent, root := newDataDir(t)
	link := filepath.Join(root, "escape.txt")
	if err := os.Symlink(filepath.Join(parent, "secret.txt"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := resource.NewDirectory(root)
	require.NoError(t, err)

	_, err = res.Respond(context.Background(), "escape.txt", "")
	assert.ErrorIs(t, err, resource.ErrNotFound)
}
