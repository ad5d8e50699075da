package cashbook

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ricemill/pos-backend/internal/modules/auth"
)

// Handler exposes the cash book HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the cash book routes. All routes require an
// authenticated session; recording a payout is admin only.
func (h *Handler) RegisterRoutes(r *chi.Mux, authn, admin func(http.Handler) http.Handler) {
	r.Route("/api/v1/cashbook", func(r chi.Router) {
		r.Use(authn)
		r.Get("/{day}/payouts", h.payouts)
		r.Get("/{day}/net", h.netCash)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/payouts", h.recordPayout)
		})
	})
}

type payoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	Notes  string          `json:"notes"`
}

func (h *Handler) recordPayout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req payoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.RecordPayout(r.Context(), req.Amount, req.Reason, req.Notes, session.UserID)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) payouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.service.PayoutsForDay(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, payouts)
}

func (h *Handler) netCash(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.NetCash(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
