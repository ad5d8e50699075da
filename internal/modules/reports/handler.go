package reports

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the report HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the report routes. Reports are read-only and
// open to any authenticated user.
func (h *Handler) RegisterRoutes(r *chi.Mux, authn func(http.Handler) http.Handler) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(authn)
		r.Get("/today", h.today)
		r.Get("/stock", h.stock)
		r.Get("/range", h.rangeSummary)
		r.Get("/products", h.productPerformance)
		r.Get("/recent-sales", h.recentSales)
	})
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.TodaySummary(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.StockStatus(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) rangeSummary(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	summary, err := h.service.RangeSummary(r.Context(), from, to)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) productPerformance(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	rows, err := h.service.ProductPerformance(r.Context(), from, to)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) recentSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sales, err := h.service.RecentSales(r.Context(), limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, sales)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
