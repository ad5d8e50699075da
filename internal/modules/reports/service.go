package reports

import (
	"context"
	"fmt"

	"github.com/ricemill/pos-backend/internal/config"
)

// Service is the read-only report facade. All date arithmetic goes
// through the shared business-day calendar.
type Service interface {
	TodaySummary(ctx context.Context) (*DaySummary, error)
	StockStatus(ctx context.Context) ([]*StockStatusRow, error)
	RangeSummary(ctx context.Context, from, to string) (*RangeSummary, error)
	ProductPerformance(ctx context.Context, from, to string) ([]*ProductPerformance, error)
	RecentSales(ctx context.Context, limit int) ([]*RecentSale, error)
}

type service struct {
	repo Repository
	cal  *config.Calendar
}

func NewService(repo Repository, cal *config.Calendar) Service {
	return &service{repo: repo, cal: cal}
}

func (s *service) TodaySummary(ctx context.Context) (*DaySummary, error) {
	day := s.cal.Today()
	start, end, err := s.cal.DayBounds(day)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.SummaryBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	summary.Day = day
	return summary, nil
}

func (s *service) StockStatus(ctx context.Context) ([]*StockStatusRow, error) {
	return s.repo.StockStatus(ctx)
}

func (s *service) RangeSummary(ctx context.Context, from, to string) (*RangeSummary, error) {
	if _, _, err := s.cal.DayBounds(from); err != nil {
		return nil, err
	}
	if _, _, err := s.cal.DayBounds(to); err != nil {
		return nil, err
	}
	// Day keys are fixed-width YYYYMMDD, so string order is date order.
	if to < from {
		return nil, fmt.Errorf("range end %s is before start %s", to, from)
	}

	out := &RangeSummary{From: from, To: to}
	for day := from; day <= to; {
		start, end, err := s.cal.DayBounds(day)
		if err != nil {
			return nil, err
		}
		daySummary, err := s.repo.SummaryBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		daySummary.Day = day
		out.Days = append(out.Days, daySummary)

		out.Transactions += daySummary.Transactions
		out.TotalSales = out.TotalSales.Add(daySummary.TotalSales)
		out.Discounts = out.Discounts.Add(daySummary.Discounts)
		out.CashSales = out.CashSales.Add(daySummary.CashSales)
		out.CreditSales = out.CreditSales.Add(daySummary.CreditSales)

		if day, err = s.cal.NextDay(day); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *service) ProductPerformance(ctx context.Context, from, to string) ([]*ProductPerformance, error) {
	start, _, err := s.cal.DayBounds(from)
	if err != nil {
		return nil, err
	}
	_, end, err := s.cal.DayBounds(to)
	if err != nil {
		return nil, err
	}
	return s.repo.ProductPerformanceBetween(ctx, start, end)
}

func (s *service) RecentSales(ctx context.Context, limit int) ([]*RecentSale, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	return s.repo.RecentSales(ctx, limit)
}
