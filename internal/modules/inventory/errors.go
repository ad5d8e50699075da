package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product has no stock record.
var ErrNotFound = errors.New("stock record not found")

// InsufficientStockError is returned when an entry would drive a stock
// quantity below zero. It is safe to retry after the cart is reduced.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Unit      string // "kg" or "bags"
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s %s, only %s available",
		e.ProductID, e.Requested, e.Unit, e.Available)
}
