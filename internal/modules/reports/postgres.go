package reports

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepository struct{ db *sql.DB }

// NewPostgresRepository creates a PostgreSQL report repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SummaryBetween(ctx context.Context, start, end time.Time) (*DaySummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(final_amount), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COALESCE(SUM(final_amount) FILTER (WHERE payment_method = 'cash'), 0),
		       COALESCE(SUM(final_amount) FILTER (WHERE payment_method = 'credit'), 0)
		FROM sales
		WHERE is_voided = false
		  AND sale_date >= $1 AND sale_date < $2`

	s := &DaySummary{}
	err := r.db.QueryRowContext(ctx, query, start, end).Scan(
		&s.Transactions, &s.TotalSales, &s.Discounts, &s.CashSales, &s.CreditSales,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}

// StockStatus checks out-of-stock before low-stock so a product at zero
// never reads as merely low.
func (r *postgresRepository) StockStatus(ctx context.Context) ([]*StockStatusRow, error) {
	query := `
		SELECT p.id, p.name, p.quality,
		       sl.quantity_kg, sl.quantity_bags, sl.min_stock_kg,
		       CASE
		           WHEN sl.quantity_kg <= 0 THEN 'out_of_stock'
		           WHEN sl.quantity_kg < sl.min_stock_kg THEN 'low_stock'
		           ELSE 'available'
		       END
		FROM products p
		JOIN stock_levels sl ON sl.product_id = p.id
		WHERE p.is_active = true
		ORDER BY p.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock status: %w", err)
	}
	defer rows.Close()

	var out []*StockStatusRow
	for rows.Next() {
		row := &StockStatusRow{}
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Quality,
			&row.QuantityKg, &row.QuantityBags, &row.MinStockKg, &row.Status); err != nil {
			return nil, fmt.Errorf("scan stock status: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ProductPerformanceBetween(ctx context.Context, start, end time.Time) ([]*ProductPerformance, error) {
	query := `
		SELECT si.product_id, si.product_name,
		       COALESCE(SUM(si.quantity_kg), 0),
		       COALESCE(SUM(si.quantity_bags), 0),
		       COALESCE(SUM(si.subtotal), 0),
		       COUNT(DISTINCT si.sale_id)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.is_voided = false
		  AND s.sale_date >= $1 AND s.sale_date < $2
		GROUP BY si.product_id, si.product_name
		ORDER BY SUM(si.subtotal) DESC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("product performance: %w", err)
	}
	defer rows.Close()

	var out []*ProductPerformance
	for rows.Next() {
		p := &ProductPerformance{}
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.KgSold, &p.BagsSold, &p.Revenue, &p.Transactions); err != nil {
			return nil, fmt.Errorf("scan product performance: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) RecentSales(ctx context.Context, limit int) ([]*RecentSale, error) {
	query := `
		SELECT s.id, s.sale_number, s.sale_date, u.full_name,
		       COALESCE(s.customer_name, ''), s.final_amount, s.payment_method,
		       (SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = s.id)
		FROM sales s
		JOIN users u ON u.id = s.cashier_id
		ORDER BY s.sale_date DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}
	defer rows.Close()

	var out []*RecentSale
	for rows.Next() {
		rs := &RecentSale{}
		if err := rows.Scan(&rs.ID, &rs.SaleNumber, &rs.SaleDate, &rs.CashierName,
			&rs.CustomerName, &rs.FinalAmount, &rs.PaymentMethod, &rs.ItemCount); err != nil {
			return nil, fmt.Errorf("scan recent sale: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
