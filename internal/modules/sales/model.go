package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleType says how a line item is measured and priced.
type SaleType string

const (
	ByKg  SaleType = "by_kg"
	ByBag SaleType = "by_bag"
)

// PaymentMethod is how the customer settles the sale.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

// CartLine is one product in a draft cart. Name and unit price are
// snapshots resolved from the catalog when the line was added (Quote),
// so later product edits cannot change a committed sale.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SaleType    SaleType        `json:"sale_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Cart is a draft sale. It has no identity and no persisted effect;
// abandoning it is free. Only Commit writes anything.
type Cart struct {
	Lines          []CartLine      `json:"lines"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountReason string          `json:"discount_reason"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
}

// Subtotal sums the line subtotals.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Sale is a committed checkout. Immutable once written; is_voided is a
// reserved flag that stays false until a void policy exists.
type Sale struct {
	ID             uuid.UUID       `json:"id"`
	SaleNumber     string          `json:"sale_number"`
	SaleDate       time.Time       `json:"sale_date"`
	CashierID      uuid.UUID       `json:"cashier_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountReason string          `json:"discount_reason,omitempty"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	IsVoided       bool            `json:"is_voided"`
	Items          []*SaleItem     `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SaleItem is one committed line. Exactly one of QuantityKg and
// QuantityBags is set, matching the sale type.
type SaleItem struct {
	ID           uuid.UUID           `json:"id"`
	SaleID       uuid.UUID           `json:"sale_id"`
	ProductID    uuid.UUID           `json:"product_id"`
	ProductName  string              `json:"product_name"`
	SaleType     SaleType            `json:"sale_type"`
	QuantityKg   decimal.NullDecimal `json:"quantity_kg,omitempty"`
	QuantityBags *int                `json:"quantity_bags,omitempty"`
	PricePerUnit decimal.Decimal     `json:"price_per_unit"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ProductSnapshot is the slice of catalog data the engine needs to
// price and validate a line.
type ProductSnapshot struct {
	ID          uuid.UUID
	Name        string
	PricePerKg  decimal.Decimal
	BagSizeKg   decimal.NullDecimal
	PricePerBag decimal.NullDecimal
	IsActive    bool
}

// Bagged reports whether the product can be sold by the bag.
func (p *ProductSnapshot) Bagged() bool {
	return p.BagSizeKg.Valid && p.PricePerBag.Valid
}

// StockView is the current availability the engine checks carts against.
type StockView struct {
	QuantityKg   decimal.Decimal
	QuantityBags int
}

// ValidationIssue is one reason a cart cannot commit. Field names the
// offending part of the cart ("lines[2].quantity", "discount_amount",
// "customer_name").
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
