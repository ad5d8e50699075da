package cashbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ricemill/pos-backend/internal/config"
)

// Service is the cash book: payouts out of the drawer and the net-cash
// reconciliation for a business day.
type Service interface {
	RecordPayout(ctx context.Context, amount decimal.Decimal, reason, notes string, actor uuid.UUID) (*Payout, error)
	PayoutsForDay(ctx context.Context, day string) ([]*Payout, error)
	NetCash(ctx context.Context, day string) (*DaySummary, error)
}

type service struct {
	repo Repository
	cal  *config.Calendar
	log  *logrus.Logger
}

func NewService(repo Repository, cal *config.Calendar, log *logrus.Logger) Service {
	return &service{repo: repo, cal: cal, log: log}
}

func (s *service) RecordPayout(ctx context.Context, amount decimal.Decimal, reason, notes string, actor uuid.UUID) (*Payout, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payout amount must be positive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("payout reason is required")
	}

	p := &Payout{
		ID:          uuid.New(),
		Amount:      amount.Round(2),
		Reason:      reason,
		PerformedBy: actor,
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreatePayout(ctx, p); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payout_id": p.ID,
		"amount":    p.Amount.String(),
		"reason":    p.Reason,
	}).Info("payout recorded")
	return p, nil
}

func (s *service) PayoutsForDay(ctx context.Context, day string) ([]*Payout, error) {
	start, end, err := s.cal.DayBounds(day)
	if err != nil {
		return nil, err
	}
	return s.repo.PayoutsBetween(ctx, start, end)
}

// NetCash reconciles the drawer: cash sales in minus payouts out.
// Credit sales never touch the drawer and are excluded.
func (s *service) NetCash(ctx context.Context, day string) (*DaySummary, error) {
	start, end, err := s.cal.DayBounds(day)
	if err != nil {
		return nil, err
	}
	cash, err := s.repo.CashSalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	paid, err := s.repo.PayoutTotalBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &DaySummary{
		Day:       day,
		CashSales: cash,
		Payouts:   paid,
		NetCash:   cash.Sub(paid),
	}, nil
}
