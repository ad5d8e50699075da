package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ricemill/pos-backend/internal/config"
	"github.com/ricemill/pos-backend/internal/database"
)

// Engine is the sale transaction engine. A cart moves Draft -> Validated
// -> Committed, or is Rejected with a ValidationError before anything is
// written. Commit is all or nothing.
type Engine interface {
	// Quote prices one line against the current catalog, snapshotting
	// product name and unit price into the cart.
	Quote(ctx context.Context, productID string, saleType SaleType, quantity decimal.Decimal) (*CartLine, error)

	// Validate checks the cart without writing. An empty slice means the
	// cart may commit (subject to stock still being there at commit time).
	Validate(ctx context.Context, cart Cart) ([]ValidationIssue, error)

	// Commit validates and persists the cart as one atomic unit.
	Commit(ctx context.Context, cart Cart, cashierID uuid.UUID) (*Sale, error)

	Detail(ctx context.Context, id string) (*Sale, error)
	ByNumber(ctx context.Context, number string) (*Sale, error)
	Recent(ctx context.Context, limit int) ([]*Sale, error)
}

type engine struct {
	repo Repository
	cal  *config.Calendar
	gate *database.Gate
	log  *logrus.Logger
}

// NewEngine creates the sale transaction engine.
func NewEngine(repo Repository, cal *config.Calendar, gate *database.Gate, log *logrus.Logger) Engine {
	return &engine{repo: repo, cal: cal, gate: gate, log: log}
}

func (e *engine) Quote(ctx context.Context, productID string, saleType SaleType, quantity decimal.Decimal) (*CartLine, error) {
	p, err := e.repo.ProductForSale(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product %s is not available for sale", p.Name)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var price decimal.Decimal
	switch saleType {
	case ByKg:
		price = p.PricePerKg
	case ByBag:
		if !p.Bagged() {
			return nil, fmt.Errorf("product %s is not sold by the bag", p.Name)
		}
		if !quantity.IsInteger() {
			return nil, fmt.Errorf("bag quantity must be a whole number")
		}
		price = p.PricePerBag.Decimal
	default:
		return nil, fmt.Errorf("invalid sale type %q", saleType)
	}

	return &CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		SaleType:    saleType,
		Quantity:    quantity,
		UnitPrice:   price,
		Subtotal:    quantity.Mul(price).Round(2),
	}, nil
}

// Validate applies every cart rule. Stock checks aggregate the cart per
// product so two lines of the same product cannot pass individually yet
// oversell together.
func (e *engine) Validate(ctx context.Context, cart Cart) ([]ValidationIssue, error) {
	var issues []ValidationIssue
	add := func(field, message string) {
		issues = append(issues, ValidationIssue{Field: field, Message: message})
	}

	if len(cart.Lines) == 0 {
		add("lines", "cart is empty")
		return issues, nil
	}

	switch cart.PaymentMethod {
	case PaymentCash:
	case PaymentCredit:
		if strings.TrimSpace(cart.CustomerName) == "" {
			add("customer_name", "customer name is required for credit sales")
		}
	default:
		add("payment_method", fmt.Sprintf("invalid payment method %q (allowed: cash, credit)", cart.PaymentMethod))
	}

	wantKg := map[uuid.UUID]decimal.Decimal{}
	wantBags := map[uuid.UUID]int{}

	for i, line := range cart.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if !line.Quantity.IsPositive() {
			add(field+".quantity", "quantity must be positive")
			continue
		}
		switch line.SaleType {
		case ByKg:
			wantKg[line.ProductID] = wantKg[line.ProductID].Add(line.Quantity)
		case ByBag:
			if !line.Quantity.IsInteger() {
				add(field+".quantity", "bag quantity must be a whole number")
				continue
			}
			wantBags[line.ProductID] += int(line.Quantity.IntPart())
		default:
			add(field+".sale_type", fmt.Sprintf("invalid sale type %q", line.SaleType))
			continue
		}
		if expected := line.Quantity.Mul(line.UnitPrice).Round(2); !line.Subtotal.Equal(expected) {
			add(field+".subtotal", fmt.Sprintf("subtotal %s does not match quantity x unit price (%s)", line.Subtotal, expected))
		}
	}

	for i, line := range cart.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		p, err := e.repo.ProductForSale(ctx, line.ProductID.String())
		if err == ErrNotFound {
			add(field+".product_id", "unknown product")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read product: %w", err)
		}
		if !p.IsActive {
			add(field+".product_id", fmt.Sprintf("product %s is not available for sale", p.Name))
		}

		// The unit price is a snapshot the client sends back; it is only
		// trusted after it matches the catalog again here.
		switch line.SaleType {
		case ByKg:
			if !line.UnitPrice.Equal(p.PricePerKg) {
				add(field+".unit_price", fmt.Sprintf("unit price %s does not match the catalog price %s", line.UnitPrice, p.PricePerKg))
			}
		case ByBag:
			if !p.Bagged() {
				add(field+".sale_type", fmt.Sprintf("product %s is not sold by the bag", p.Name))
			} else if !line.UnitPrice.Equal(p.PricePerBag.Decimal) {
				add(field+".unit_price", fmt.Sprintf("unit price %s does not match the catalog price %s", line.UnitPrice, p.PricePerBag.Decimal))
			}
		}

		stock, err := e.repo.StockForSale(ctx, line.ProductID.String())
		if err == ErrNotFound {
			add(field+".product_id", "unknown product")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read stock: %w", err)
		}
		if kg, ok := wantKg[line.ProductID]; ok && line.SaleType == ByKg {
			if kg.GreaterThan(stock.QuantityKg) {
				add(field+".quantity", fmt.Sprintf("insufficient stock: requested %s kg, only %s kg available", kg, stock.QuantityKg))
			}
			delete(wantKg, line.ProductID)
		}
		if bags, ok := wantBags[line.ProductID]; ok && line.SaleType == ByBag {
			if bags > stock.QuantityBags {
				add(field+".quantity", fmt.Sprintf("insufficient stock: requested %d bags, only %d available", bags, stock.QuantityBags))
			}
			delete(wantBags, line.ProductID)
		}
	}

	subtotal := cart.Subtotal()
	if cart.DiscountAmount.IsNegative() {
		add("discount_amount", "discount cannot be negative")
	} else if cart.DiscountAmount.GreaterThan(subtotal) {
		add("discount_amount", fmt.Sprintf("discount %s exceeds subtotal %s", cart.DiscountAmount, subtotal))
	} else if cart.DiscountAmount.IsPositive() && strings.TrimSpace(cart.DiscountReason) == "" {
		add("discount_reason", "discount reason is required")
	}

	return issues, nil
}

func (e *engine) Commit(ctx context.Context, cart Cart, cashierID uuid.UUID) (*Sale, error) {
	issues, err := e.Validate(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	// Snapshots must not observe the sale half-applied.
	e.gate.BeginCommit()
	defer e.gate.EndCommit()

	now := time.Now()
	subtotal := cart.Subtotal()
	discount := cart.DiscountAmount.Round(2)

	sale := &Sale{
		ID:             uuid.New(),
		SaleDate:       now,
		CashierID:      cashierID,
		CustomerName:   strings.TrimSpace(cart.CustomerName),
		CustomerPhone:  strings.TrimSpace(cart.CustomerPhone),
		TotalAmount:    subtotal,
		DiscountAmount: discount,
		DiscountReason: strings.TrimSpace(cart.DiscountReason),
		FinalAmount:    subtotal.Sub(discount),
		PaymentMethod:  cart.PaymentMethod,
	}

	for _, line := range cart.Lines {
		item := &SaleItem{
			ID:           uuid.New(),
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			SaleType:     line.SaleType,
			PricePerUnit: line.UnitPrice,
			Subtotal:     line.Subtotal,
		}
		if line.SaleType == ByKg {
			item.QuantityKg = decimal.NewNullDecimal(line.Quantity)
		} else {
			bags := int(line.Quantity.IntPart())
			item.QuantityBags = &bags
		}
		sale.Items = append(sale.Items, item)
	}

	if err := e.repo.CreateSale(ctx, sale, e.cal.DayOf(now)); err != nil {
		e.log.WithFields(logrus.Fields{
			"cashier_id": cashierID,
			"items":      len(sale.Items),
		}).WithError(err).Error("sale commit failed")
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"sale_number":    sale.SaleNumber,
		"final_amount":   sale.FinalAmount.String(),
		"payment_method": sale.PaymentMethod,
		"items":          len(sale.Items),
	}).Info("sale committed")
	return sale, nil
}

func (e *engine) Detail(ctx context.Context, id string) (*Sale, error) {
	return e.repo.GetByID(ctx, id)
}

func (e *engine) ByNumber(ctx context.Context, number string) (*Sale, error) {
	return e.repo.GetByNumber(ctx, number)
}

func (e *engine) Recent(ctx context.Context, limit int) ([]*Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	return e.repo.ListRecent(ctx, limit)
}
