package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no product matches the lookup.
var ErrNotFound = errors.New("product not found")

// Repository defines product data storage.
type Repository interface {
	// Create inserts the product and its zero stock level in one transaction.
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, activeOnly bool) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, id string, active bool) error
}
