package cashbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payout is cash taken out of the drawer during the day: supplier
// payments, wages, owner draws. Payouts are append-only.
type Payout struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	PerformedBy uuid.UUID       `json:"performed_by"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DaySummary is the drawer reconciliation for one business day.
type DaySummary struct {
	Day       string          `json:"day"`
	CashSales decimal.Decimal `json:"cash_sales"`
	Payouts   decimal.Decimal `json:"payouts"`
	NetCash   decimal.Decimal `json:"net_cash"`
}
