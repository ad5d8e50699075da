package backup

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the snapshot HTTP endpoints.
type Handler struct {
	service     Service
	defaultKeep int
}

func NewHandler(service Service, defaultKeep int) *Handler {
	return &Handler{service: service, defaultKeep: defaultKeep}
}

// RegisterRoutes mounts the snapshot routes, all admin only.
func (h *Handler) RegisterRoutes(r *chi.Mux, authn, admin func(http.Handler) http.Handler) {
	r.Route("/api/v1/backups", func(r chi.Router) {
		r.Use(authn, admin)
		r.Post("/", h.snapshot)
		r.Get("/", h.list)
		r.Post("/cleanup", h.cleanup)
	})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Snapshot(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, info)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.service.List()
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, snapshots)
}

func (h *Handler) cleanup(w http.ResponseWriter, r *http.Request) {
	keep := h.defaultKeep
	if v := r.URL.Query().Get("keep"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "keep must be an integer"})
			return
		}
		keep = n
	}
	deleted, err := h.service.CleanOld(keep)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
