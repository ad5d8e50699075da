package reports

import (
	"context"
	"time"
)

// Repository is the read-only query contract behind the report facade.
type Repository interface {
	SummaryBetween(ctx context.Context, start, end time.Time) (*DaySummary, error)
	StockStatus(ctx context.Context) ([]*StockStatusRow, error)
	ProductPerformanceBetween(ctx context.Context, start, end time.Time) ([]*ProductPerformance, error)
	RecentSales(ctx context.Context, limit int) ([]*RecentSale, error)
}
