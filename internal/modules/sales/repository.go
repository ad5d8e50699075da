package sales

import "context"

// Repository defines sale data storage plus the catalog/stock reads the
// engine needs. CreateSale owns the commit transaction: sale number
// allocation, header, items and the paired stock decrements all succeed
// or all roll back.
type Repository interface {
	// CreateSale persists the sale atomically. The repository allocates
	// the sale number for the given business day and fills in
	// sale.SaleNumber before returning.
	CreateSale(ctx context.Context, sale *Sale, day string) error

	GetByID(ctx context.Context, id string) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	ListRecent(ctx context.Context, limit int) ([]*Sale, error)

	// ProductForSale resolves the pricing snapshot for a cart line.
	ProductForSale(ctx context.Context, productID string) (*ProductSnapshot, error)

	// StockForSale reads current availability for validation. The
	// authoritative check still happens inside CreateSale under row locks.
	StockForSale(ctx context.Context, productID string) (*StockView, error)
}
