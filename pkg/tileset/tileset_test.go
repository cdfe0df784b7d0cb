package tileset_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bgserve/pkg/registry"
	"github.com/dmitrymomot/bgserve/pkg/tileset"
)

type fakeTileset struct {
	info    map[string]any
	calls   [][]string
	failing bool
}

func (f *fakeTileset) Info() (map[string]any, error) {
	if f.failing {
		return nil, errors.New("boom")
	}
	return f.info, nil
}

func (f *fakeTileset) Tiles(ids []string) ([]tileset.Tile, error) {
	if f.failing {
		return nil, errors.New("boom")
	}
	f.calls = append(f.calls, ids)
	out := make([]tileset.Tile, len(ids))
	for i, id := range ids {
		out[i] = tileset.Tile{ID: id, Value: map[string]any{"dense": id}}
	}
	return out, nil
}

func newAPI(t *testing.T, sets ...*tileset.Resource) http.Handler {
	t.Helper()
	reg := registry.New[*tileset.Resource]()
	for _, s := range sets {
		reg.Register(s.UID, s)
	}
	return tileset.NewHandler(reg, nil)
}

func getJSON(t *testing.T, h http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestParseList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		query string
		field string
		want  []string
	}{
		{"d=id1&d=id2&d=id3", "d", []string{"id1", "id2", "id3"}},
		{"d=1&e=2&d=3", "d", []string{"1", "3"}},
		{"d=a%2Eb", "d", []string{"a.b"}},
		{"e=1&flag", "d", nil},
		{"", "d", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tileset.ParseList(tt.query, tt.field), tt.query)
	}
}

func TestNewResourceUID(t *testing.T) {
	t.Parallel()
	ts := &fakeTileset{}
	assert.Equal(t, "given", tileset.NewResource(ts, "given").UID)

	a := tileset.NewResource(ts, "")
	b := tileset.NewResource(ts, "")
	assert.NotEmpty(t, a.UID)
	assert.Equal(t, a.UID, b.UID, "same tileset value keeps its uid")
	assert.NotEqual(t, a.UID, tileset.NewResource(&fakeTileset{}, "").UID)
}

func TestTilesetInfo(t *testing.T) {
	t.Parallel()
	ts := &fakeTileset{info: map[string]any{"min_pos": []int{0}, "max_zoom": 3}}
	h := newAPI(t, tileset.NewResource(ts, "abc"))

	code, body := getJSON(t, h, "/tileset_info/?d=abc&d=missing")
	require.Equal(t, http.StatusOK, code)
	info := body["abc"].(map[string]any)
	assert.Equal(t, float64(3), info["max_zoom"])
	assert.Equal(t, map[string]any{"error": "No such tileset with uid: missing"}, body["missing"])
}

func TestTiles(t *testing.T) {
	t.Parallel()
	one := &fakeTileset{}
	two := &fakeTileset{}
	h := newAPI(t, tileset.NewResource(one, "one"), tileset.NewResource(two, "two"))

	code, body := getJSON(t, h, "/tiles/?d=two.0.0&d=one.1.0&d=one.0.0&d=one.0.0")
	require.Equal(t, http.StatusOK, code)
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"one.0.0", "one.1.0", "two.0.0"}, keys)
	assert.Equal(t, [][]string{{"one.0.0", "one.1.0"}}, one.calls, "grouped and deduplicated per tileset")
	assert.Equal(t, [][]string{{"two.0.0"}}, two.calls)
}

func TestTilesErrors(t *testing.T) {
	t.Parallel()
	h := newAPI(t, tileset.NewResource(&fakeTileset{failing: true}, "bad"))

	code, body := getJSON(t, h, "/tiles/")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No tiles requested", body["error"])

	code, body = getJSON(t, h, "/tiles/?d=nope.0.0")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No tileset found for requested uid: nope", body["error"])

	code, _ = getJSON(t, h, "/tiles/?d=bad.0.0")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestChromSizes(t *testing.T) {
	t.Parallel()
	typed := &fakeTileset{info: map[string]any{
		"chromsizes": []tileset.ChromSize{{Name: "chr1", Size: 249250621}, {Name: "chr2", Size: 243199373}},
	}}
	pairs := &fakeTileset{info: map[string]any{
		"chromsizes": []any{[]any{"chrX", 155270560}, []any{"chrY", float64(59373566)}},
	}}
	none := &fakeTileset{info: map[string]any{}}
	h := newAPI(t,
		tileset.NewResource(typed, "typed"),
		tileset.NewResource(pairs, "pairs"),
		tileset.NewResource(none, "none"),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chrom-sizes/?id=typed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chr1\t249250621\nchr2\t243199373", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chrom-sizes/?id=pairs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chrX\t155270560\nchrY\t59373566", rec.Body.String())

	code, body := getJSON(t, h, "/chrom-sizes/")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No uid provided.", body["error"])

	code, _ = getJSON(t, h, "/chrom-sizes/?id=missing")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = getJSON(t, h, "/chrom-sizes/?id=none")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No chromsizes in tileset info", body["error"])
}
