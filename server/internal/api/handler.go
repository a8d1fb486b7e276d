package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/obsidianstack/graphcast/server/internal/source"
	"github.com/obsidianstack/graphcast/server/internal/store"
)

// ClientCounter reports connected viewers.
type ClientCounter interface {
	Count() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store     *store.Store
	refresher *source.Refresher
	clients   ClientCounter
	router    chi.Router
}

// New creates a Handler and registers all routes.
func New(st *store.Store, ref *source.Refresher, clients ClientCounter) http.Handler {
	h := &Handler{store: st, refresher: ref, clients: clients, router: chi.NewRouter()}

	h.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/snapshot", h.snapshot)
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.refresher.Status()
	resp := HealthResponse{
		State:    StateEmpty,
		DataPath: h.refresher.Path(),
		Clients:  h.clients.Count(),
	}
	if !status.LastAttempt.IsZero() {
		resp.LastRefresh = status.LastAttempt.UTC().Format(time.RFC3339)
	}
	if status.LastErr != nil {
		resp.LastError = status.LastErr.Error()
	}

	if e, ok := h.store.Get(); ok {
		resp.HasSnapshot = true
		resp.NodeCount = e.Payload.NodeCount()
		resp.EdgeCount = e.Payload.EdgeCount()
		resp.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
		resp.State = StateOK
		if status.LastErr != nil {
			resp.State = StateStale
		}
	}

	jsonResp(w, http.StatusOK, resp)
}

// snapshot returns GET /api/v1/snapshot, the same bytes viewers receive.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	data, ok := h.store.Encode()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no snapshot loaded yet")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, errorResponse{Error: msg})
}
