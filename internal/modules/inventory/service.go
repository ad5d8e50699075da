package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service defines the inventory ledger's business rules: the sign
// conventions per movement kind and the reason requirement for manual
// adjustments. All mutation paths funnel into Repository.Apply.
type Service interface {
	Restock(ctx context.Context, productID string, kg decimal.Decimal, bags int, actor uuid.UUID, notes string) error
	Adjust(ctx context.Context, productID string, kgDelta decimal.Decimal, bagsDelta int, actor uuid.UUID, reason string) error
	SetMinStock(ctx context.Context, productID string, minKg decimal.Decimal) error
	Level(ctx context.Context, productID string) (*StockLevel, error)
	Levels(ctx context.Context) ([]*StockLevel, error)
	History(ctx context.Context, productID string, limit int) ([]*StockTransaction, error)
}

type service struct {
	repo Repository
	log  *logrus.Logger
}

// NewService creates an inventory service.
func NewService(repo Repository, log *logrus.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Restock(ctx context.Context, productID string, kg decimal.Decimal, bags int, actor uuid.UUID, notes string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrNotFound
	}
	if kg.IsNegative() || bags < 0 {
		return fmt.Errorf("restock quantities cannot be negative")
	}
	if kg.IsZero() && bags == 0 {
		return fmt.Errorf("restock must add stock")
	}

	err = s.repo.Apply(ctx, Entry{
		ProductID:   pid,
		Kind:        KindRestock,
		KgDelta:     kg,
		BagsDelta:   bags,
		PerformedBy: actor,
		Notes:       notes,
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"kg":         kg.String(),
		"bags":       bags,
	}).Info("stock restocked")
	return nil
}

func (s *service) Adjust(ctx context.Context, productID string, kgDelta decimal.Decimal, bagsDelta int, actor uuid.UUID, reason string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrNotFound
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("adjustment reason is required")
	}
	if kgDelta.IsZero() && bagsDelta == 0 {
		return fmt.Errorf("adjustment must change stock")
	}

	err = s.repo.Apply(ctx, Entry{
		ProductID:   pid,
		Kind:        KindAdjustment,
		KgDelta:     kgDelta,
		BagsDelta:   bagsDelta,
		PerformedBy: actor,
		Notes:       strings.TrimSpace(reason),
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"kg_delta":   kgDelta.String(),
		"bags_delta": bagsDelta,
		"reason":     reason,
	}).Info("stock adjusted")
	return nil
}

func (s *service) SetMinStock(ctx context.Context, productID string, minKg decimal.Decimal) error {
	if minKg.IsNegative() {
		return fmt.Errorf("minimum stock cannot be negative")
	}
	return s.repo.SetMinStock(ctx, productID, minKg)
}

func (s *service) Level(ctx context.Context, productID string) (*StockLevel, error) {
	return s.repo.GetLevel(ctx, productID)
}

func (s *service) Levels(ctx context.Context) ([]*StockLevel, error) {
	return s.repo.ListLevels(ctx)
}

func (s *service) History(ctx context.Context, productID string, limit int) ([]*StockTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.History(ctx, productID, limit)
}
