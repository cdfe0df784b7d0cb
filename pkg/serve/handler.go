package serve

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bgserve/pkg/byterange"
	"github.com/dmitrymomot/bgserve/pkg/logger"
	"github.com/dmitrymomot/bgserve/pkg/resource"
)

// Lookuper resolves identifiers to resources. *registry.Registry[resource.Resource] satisfies it.
type Lookuper interface {
	Lookup(id string) (resource.Resource, bool)
}

type handler struct {
	resources Lookuper
	cfg       config
}

// NewHandler returns a router serving the resources known to resources.
func NewHandler(resources Lookuper, opts ...Option) http.Handler {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}
	cfg.logger = cfg.logger.With(logger.Component("serve"))

	h := &handler{resources: resources, cfg: cfg}

	r := chi.NewRouter()
	r.Use(RequestID, AccessLog(cfg.logger))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		writeStatus(w, http.StatusMethodNotAllowed)
	})

	r.Get("/{id}", h.serveResource)
	r.Head("/{id}", h.serveResource)
	r.Get("/{id}/*", h.serveSubPath)
	r.Head("/{id}/*", h.serveSubPath)

	return r
}

func (h *handler) serveResource(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, chi.URLParam(r, "id"), "")
}

func (h *handler) serveSubPath(w http.ResponseWriter, r *http.Request) {
	sub := chi.URLParam(r, "*")
	// chi matches against the raw path when the request carries escapes.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(sub)
		if err != nil {
			writeStatus(w, http.StatusNotFound)
			return
		}
		sub = unescaped
	}
	if strings.TrimSpace(sub) == "" {
		writeStatus(w, http.StatusNotFound)
		return
	}
	h.serve(w, r, chi.URLParam(r, "id"), sub)
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request, id, sub string) {
	res, ok := h.resources.Lookup(id)
	if !ok {
		writeStatus(w, http.StatusNotFound)
		return
	}

	resp, err := res.Respond(r.Context(), sub, r.Header.Get("Range"))
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	defer resp.Close()

	var dst http.ResponseWriter = w
	if h.cfg.limit > 0 {
		dst = newThrottledWriter(r.Context(), w, h.cfg.limit, h.cfg.burst)
	}

	if _, err := resp.Send(dst, r.Method != http.MethodHead); err != nil {
		if r.Context().Err() == nil {
			h.cfg.logger.ErrorContext(r.Context(), "response stream failed",
				logger.ResourceID(id),
				logger.Error(err),
			)
		}
		// Status and length are already on the wire; abort the connection.
		panic(http.ErrAbortHandler)
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var rangeErr *resource.RangeError
	switch {
	case errors.As(err, &rangeErr):
		w.Header().Set("Content-Range", byterange.Unsatisfied(rangeErr.Total))
		w.Header().Set("Accept-Ranges", "bytes")
		writeStatus(w, http.StatusRequestedRangeNotSatisfiable)
	case errors.Is(err, resource.ErrNotFound),
		errors.Is(err, resource.ErrSubPathNotAllowed),
		errors.Is(err, resource.ErrSubPathRequired):
		writeStatus(w, http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		// Client went away before anything was sent.
	default:
		h.cfg.logger.ErrorContext(r.Context(), "resource request failed",
			logger.ResourceID(id),
			logger.Error(err),
		)
		writeStatus(w, http.StatusInternalServerError)
	}
}

func writeStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}
