package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quality is the rice quality tier.
type Quality string

const (
	QualityPremium  Quality = "premium"
	QualityStandard Quality = "standard"
	QualityEconomic Quality = "economic"
)

// Product is a rice variety sold by the shop. Identity (id, code) is
// immutable; prices and description are admin-editable. Products are
// soft-deactivated, never deleted.
type Product struct {
	ID          uuid.UUID           `json:"id"`
	Code        string              `json:"product_code"`
	Name        string              `json:"name"`
	Quality     Quality             `json:"quality"`
	PricePerKg  decimal.Decimal     `json:"price_per_kg"`
	BagSizeKg   decimal.NullDecimal `json:"bag_size_kg,omitempty"`
	PricePerBag decimal.NullDecimal `json:"price_per_bag,omitempty"`
	Description string              `json:"description,omitempty"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Bagged reports whether the product can be sold by the bag.
func (p *Product) Bagged() bool {
	return p.BagSizeKg.Valid && p.PricePerBag.Valid
}

// CreateProductRequest is the payload for adding a product.
type CreateProductRequest struct {
	Code        string              `json:"product_code"`
	Name        string              `json:"name"`
	Quality     string              `json:"quality"`
	PricePerKg  decimal.Decimal     `json:"price_per_kg"`
	BagSizeKg   decimal.NullDecimal `json:"bag_size_kg"`
	PricePerBag decimal.NullDecimal `json:"price_per_bag"`
	Description string              `json:"description"`
}

// UpdateProductRequest carries the admin-editable fields. Nil pointers
// leave the stored value unchanged.
type UpdateProductRequest struct {
	Name        *string              `json:"name"`
	Quality     *string              `json:"quality"`
	PricePerKg  *decimal.Decimal     `json:"price_per_kg"`
	BagSizeKg   *decimal.NullDecimal `json:"bag_size_kg"`
	PricePerBag *decimal.NullDecimal `json:"price_per_bag"`
	Description *string              `json:"description"`
}
