package sales

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ricemill/pos-backend/internal/modules/auth"
	"github.com/ricemill/pos-backend/internal/modules/inventory"
)

// Handler exposes the sale HTTP endpoints.
type Handler struct{ engine Engine }

func NewHandler(engine Engine) *Handler { return &Handler{engine: engine} }

// RegisterRoutes mounts the sale routes. Every route requires an
// authenticated session; committing a discounted sale additionally
// requires the admin role.
func (h *Handler) RegisterRoutes(r *chi.Mux, authn func(http.Handler) http.Handler) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Use(authn)
		r.Post("/quote", h.quote)
		r.Post("/validate", h.validate)
		r.Post("/", h.commit)
		r.Get("/", h.recent)
		r.Get("/{id}", h.get)
		r.Get("/number/{number}", h.getByNumber)
	})
}

type quoteRequest struct {
	ProductID string          `json:"product_id"`
	SaleType  SaleType        `json:"sale_type"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	line, err := h.engine.Quote(r.Context(), req.ProductID, req.SaleType, req.Quantity)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, line)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var cart Cart
	if err := json.NewDecoder(r.Body).Decode(&cart); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	issues, err := h.engine.Validate(r.Context(), cart)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var cart Cart
	if err := json.NewDecoder(r.Body).Decode(&cart); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if cart.DiscountAmount.IsPositive() && !session.IsAdmin() {
		respond(w, http.StatusForbidden, map[string]string{"error": "only an admin may apply a discount"})
		return
	}
	sale, err := h.engine.Commit(r.Context(), cart, session.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, sale)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.engine.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, sale)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	sale, err := h.engine.ByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, sale)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sales, err := h.engine.Recent(r.Context(), limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, sales)
}

func respondErr(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "cart rejected",
			"issues": verr.Issues,
		})
		return
	}
	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		respond(w, http.StatusConflict, map[string]string{"error": stockErr.Error()})
		return
	}
	if errors.Is(err, ErrNotFound) {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
