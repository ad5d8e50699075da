package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DaySummary aggregates one business day of sales.
type DaySummary struct {
	Day          string          `json:"day"`
	Transactions int             `json:"transactions"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	Discounts    decimal.Decimal `json:"discounts"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	CreditSales  decimal.Decimal `json:"credit_sales"`
}

// StockStatus is the availability state of one product.
type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	Available  StockStatus = "available"
)

// StockStatusRow is one line of the stock status report.
type StockStatusRow struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quality      string          `json:"quality"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	QuantityBags int             `json:"quantity_bags"`
	MinStockKg   decimal.Decimal `json:"min_stock_kg"`
	Status       StockStatus     `json:"status"`
}

// RangeSummary aggregates a date range, with a per-day breakdown.
type RangeSummary struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Transactions int             `json:"transactions"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	Discounts    decimal.Decimal `json:"discounts"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	CreditSales  decimal.Decimal `json:"credit_sales"`
	Days         []*DaySummary   `json:"days"`
}

// ProductPerformance is per-product sales volume over a range.
type ProductPerformance struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	KgSold       decimal.Decimal `json:"kg_sold"`
	BagsSold     int             `json:"bags_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// RecentSale is the receipt-list view of a committed sale.
type RecentSale struct {
	ID            uuid.UUID       `json:"id"`
	SaleNumber    string          `json:"sale_number"`
	SaleDate      time.Time       `json:"sale_date"`
	CashierName   string          `json:"cashier_name"`
	CustomerName  string          `json:"customer_name,omitempty"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}
