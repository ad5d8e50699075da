package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines product catalog business logic.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, activeOnly bool) ([]*Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func parseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	switch q {
	case QualityPremium, QualityStandard, QualityEconomic:
		return q, nil
	}
	return "", fmt.Errorf("invalid quality %q (allowed: premium, standard, economic)", s)
}

// validateBagPricing enforces that bag size and bag price come as a pair.
func validateBagPricing(size, price decimal.NullDecimal) error {
	if size.Valid != price.Valid {
		return fmt.Errorf("bag_size_kg and price_per_bag must be set together")
	}
	if size.Valid && !size.Decimal.IsPositive() {
		return fmt.Errorf("bag_size_kg must be positive")
	}
	if price.Valid && !price.Decimal.IsPositive() {
		return fmt.Errorf("price_per_bag must be positive")
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" {
		return nil, fmt.Errorf("product_code is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	quality, err := parseQuality(req.Quality)
	if err != nil {
		return nil, err
	}
	if !req.PricePerKg.IsPositive() {
		return nil, fmt.Errorf("price_per_kg must be positive")
	}
	if err := validateBagPricing(req.BagSizeKg, req.PricePerBag); err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Quality:     quality,
		PricePerKg:  req.PricePerKg.Round(2),
		BagSizeKg:   req.BagSizeKg,
		PricePerBag: roundNull(req.PricePerBag),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByCode(ctx context.Context, code string) (*Product, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		p.Name = name
	}
	if req.Quality != nil {
		quality, err := parseQuality(*req.Quality)
		if err != nil {
			return nil, err
		}
		p.Quality = quality
	}
	if req.PricePerKg != nil {
		if !req.PricePerKg.IsPositive() {
			return nil, fmt.Errorf("price_per_kg must be positive")
		}
		p.PricePerKg = req.PricePerKg.Round(2)
	}
	if req.BagSizeKg != nil {
		p.BagSizeKg = *req.BagSizeKg
	}
	if req.PricePerBag != nil {
		p.PricePerBag = roundNull(*req.PricePerBag)
	}
	if err := validateBagPricing(p.BagSizeKg, p.PricePerBag); err != nil {
		return nil, err
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, true)
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if d.Valid {
		d.Decimal = d.Decimal.Round(2)
	}
	return d
}
