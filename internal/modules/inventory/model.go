package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a stock movement.
type Kind string

const (
	KindSale       Kind = "sale"       // deltas <= 0, referenced to a sale
	KindRestock    Kind = "restock"    // deltas >= 0
	KindAdjustment Kind = "adjustment" // either sign, reason required
)

// StockLevel is the cached projection of a product's current stock. It is
// the only mutable aggregate in the system; the stock_transactions ledger
// is the source of truth it is derived from.
type StockLevel struct {
	ProductID    uuid.UUID       `json:"product_id"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	QuantityBags int             `json:"quantity_bags"`
	MinStockKg   decimal.Decimal `json:"min_stock_kg"`
	UpdatedBy    *uuid.UUID      `json:"updated_by,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockTransaction is one append-only ledger row describing a single
// stock movement. Rows are never updated or deleted.
type StockTransaction struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Kind          Kind            `json:"kind"`
	KgChange      decimal.Decimal `json:"quantity_kg_change"`
	BagsChange    int             `json:"quantity_bags_change"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	PerformedBy   uuid.UUID       `json:"performed_by"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Entry is a request to move stock. KgDelta and BagsDelta are signed;
// the ledger refuses any entry that would drive a quantity negative.
type Entry struct {
	ProductID     uuid.UUID
	Kind          Kind
	KgDelta       decimal.Decimal
	BagsDelta     int
	ReferenceID   *uuid.UUID
	ReferenceType string
	PerformedBy   uuid.UUID
	Notes         string
}

// Validate enforces the per-kind sign conventions before any row is
// touched.
func (e Entry) Validate() error {
	switch e.Kind {
	case KindSale:
		if e.KgDelta.IsPositive() || e.BagsDelta > 0 {
			return fmt.Errorf("sale entries cannot increase stock")
		}
	case KindRestock:
		if e.KgDelta.IsNegative() || e.BagsDelta < 0 {
			return fmt.Errorf("restock entries cannot decrease stock")
		}
	case KindAdjustment:
		if strings.TrimSpace(e.Notes) == "" {
			return fmt.Errorf("adjustment entries require a reason in notes")
		}
	default:
		return fmt.Errorf("unknown stock transaction kind %q", e.Kind)
	}
	return nil
}

