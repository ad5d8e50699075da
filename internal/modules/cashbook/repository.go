package cashbook

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the cash book storage contract. Day arguments are
// passed as wall-clock bounds so the repository stays calendar-agnostic.
type Repository interface {
	CreatePayout(ctx context.Context, p *Payout) error
	PayoutsBetween(ctx context.Context, start, end time.Time) ([]*Payout, error)
	PayoutTotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	CashSalesBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}
