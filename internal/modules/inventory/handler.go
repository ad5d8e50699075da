package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ricemill/pos-backend/internal/modules/auth"
)

// Handler exposes stock HTTP endpoints. Restock, adjustment and
// threshold changes are admin only; reads are open to any staff.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, authn, admin func(http.Handler) http.Handler) {
	r.Route("/api/v1/stock", func(r chi.Router) {
		r.Use(authn)
		r.Get("/{product_id}", h.level)
		r.Get("/{product_id}/history", h.history)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/{product_id}/restock", h.restock)
			r.Post("/{product_id}/adjust", h.adjust)
			r.Patch("/{product_id}/min-stock", h.setMinStock)
		})
	})
}

func (h *Handler) level(w http.ResponseWriter, r *http.Request) {
	level, err := h.service.Level(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, level)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := h.service.History(r.Context(), chi.URLParam(r, "product_id"), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, txs)
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing session"})
		return
	}
	var body struct {
		QuantityKg   decimal.Decimal `json:"quantity_kg"`
		QuantityBags int             `json:"quantity_bags"`
		Notes        string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	err := h.service.Restock(r.Context(), chi.URLParam(r, "product_id"),
		body.QuantityKg, body.QuantityBags, session.UserID, body.Notes)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "stock restocked"})
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing session"})
		return
	}
	var body struct {
		KgDelta   decimal.Decimal `json:"quantity_kg_change"`
		BagsDelta int             `json:"quantity_bags_change"`
		Reason    string          `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	err := h.service.Adjust(r.Context(), chi.URLParam(r, "product_id"),
		body.KgDelta, body.BagsDelta, session.UserID, body.Reason)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "stock adjusted"})
}

func (h *Handler) setMinStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MinStockKg decimal.Decimal `json:"min_stock_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SetMinStock(r.Context(), chi.URLParam(r, "product_id"), body.MinStockKg); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "minimum stock updated"})
}

func respondErr(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
