package tileset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bgserve/pkg/logger"
)

// Lookuper resolves tileset uids. *registry.Registry[*tileset.Resource] satisfies it.
type Lookuper interface {
	Lookup(uid string) (*Resource, bool)
}

type handler struct {
	tilesets Lookuper
	log      *slog.Logger
}

// NewHandler returns the API router; mount it at MountPath.
// A nil logger discards errors.
func NewHandler(tilesets Lookuper, log *slog.Logger) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	h := &handler{tilesets: tilesets, log: log.With(logger.Component("tileset"))}

	r := chi.NewRouter()
	r.Get("/tileset_info/", h.info)
	r.Get("/tiles/", h.tiles)
	r.Get("/chrom-sizes/", h.chromSizes)
	return r
}

func (h *handler) info(w http.ResponseWriter, r *http.Request) {
	uids := ParseList(r.URL.RawQuery, "d")
	out := make(map[string]any, len(uids))
	for _, uid := range uids {
		res, ok := h.tilesets.Lookup(uid)
		if !ok {
			out[uid] = errorBody("No such tileset with uid: %s", uid)
			continue
		}
		info, err := res.Tileset.Info()
		if err != nil {
			h.log.ErrorContext(r.Context(), "tileset info failed", slog.String("uid", uid), logger.Error(err))
			out[uid] = errorBody("Failed to read info for tileset: %s", uid)
			continue
		}
		out[uid] = info
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) tiles(w http.ResponseWriter, r *http.Request) {
	requested := ParseList(r.URL.RawQuery, "d")
	if len(requested) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("No tiles requested"))
		return
	}
	slices.Sort(requested)
	requested = slices.Compact(requested)

	out := make(map[string]any, len(requested))
	for len(requested) > 0 {
		uid := tilesetUID(requested[0])
		n := 1
		for n < len(requested) && tilesetUID(requested[n]) == uid {
			n++
		}
		group := requested[:n]
		requested = requested[n:]

		res, ok := h.tilesets.Lookup(uid)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorBody("No tileset found for requested uid: %s", uid))
			return
		}
		tiles, err := res.Tileset.Tiles(group)
		if err != nil {
			h.log.ErrorContext(r.Context(), "tileset tiles failed", slog.String("uid", uid), logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to render tiles for tileset: %s", uid))
			return
		}
		for _, t := range tiles {
			out[t.ID] = t.Value
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) chromSizes(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("id")
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("No uid provided."))
		return
	}
	res, ok := h.tilesets.Lookup(uid)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("No such tileset with uid: %s", uid))
		return
	}
	info, err := res.Tileset.Info()
	if err != nil {
		h.log.ErrorContext(r.Context(), "tileset info failed", slog.String("uid", uid), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to read info for tileset: %s", uid))
		return
	}
	sizes, ok := chromSizes(info["chromsizes"])
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("No chromsizes in tileset info"))
		return
	}

	lines := make([]string, len(sizes))
	for i, s := range sizes {
		lines[i] = s.Name + "\t" + strconv.FormatInt(s.Size, 10)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Join(lines, "\n")))
}

// tilesetUID is the part of a tile id before the first dot.
func tilesetUID(tileID string) string {
	uid, _, _ := strings.Cut(tileID, ".")
	return uid
}

// chromSizes accepts []ChromSize or a list of [name, size] pairs as produced
// by decoded JSON or Python-style tuples.
func chromSizes(v any) ([]ChromSize, bool) {
	switch t := v.(type) {
	case []ChromSize:
		return t, true
	case [][]any:
		pairs := make([]any, len(t))
		for i := range t {
			pairs[i] = t[i]
		}
		return chromSizes(pairs)
	case []any:
		out := make([]ChromSize, 0, len(t))
		for _, row := range t {
			pair, ok := row.([]any)
			if !ok || len(pair) != 2 {
				return nil, false
			}
			name, ok := pair[0].(string)
			if !ok {
				return nil, false
			}
			size, ok := toInt64(pair[1])
			if !ok {
				return nil, false
			}
			out = append(out, ChromSize{Name: name, Size: size})
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func errorBody(format string, args ...any) map[string]string {
	return map[string]string{"error": fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
