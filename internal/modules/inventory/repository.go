package inventory

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// TxApplier applies a ledger entry inside a caller-owned transaction.
// The sale-commit engine uses this to fold its stock decrements into the
// same transaction as the sale header and line items.
type TxApplier interface {
	ApplyTx(ctx context.Context, tx *sql.Tx, e Entry) error
}

// Repository defines stock data storage. Every mutation goes through
// Apply/ApplyTx so a StockLevel change is always paired with exactly one
// StockTransaction row.
type Repository interface {
	TxApplier

	// Apply runs a ledger entry in its own transaction.
	Apply(ctx context.Context, e Entry) error

	GetLevel(ctx context.Context, productID string) (*StockLevel, error)
	ListLevels(ctx context.Context) ([]*StockLevel, error)
	SetMinStock(ctx context.Context, productID string, minKg decimal.Decimal) error
	History(ctx context.Context, productID string, limit int) ([]*StockTransaction, error)
}
