package sales

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ricemill/pos-backend/internal/modules/inventory"
)

type postgresRepo struct {
	db     *sql.DB
	ledger inventory.TxApplier
}

// NewPostgresRepository creates a sale repository. The inventory ledger
// is injected so stock decrements land in the same transaction as the
// sale rows.
func NewPostgresRepository(db *sql.DB, ledger inventory.TxApplier) Repository {
	return &postgresRepo{db: db, ledger: ledger}
}

// allocateNumber reserves the next sale number for the business day.
// The single conditional upsert is atomic: concurrent commits serialize
// on the day row and each sees a distinct, strictly increasing sequence.
func (r *postgresRepo) allocateNumber(ctx context.Context, tx *sql.Tx, day string) (string, error) {
	var seq int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO sale_counters (day, last_seq) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = sale_counters.last_seq + 1
		RETURNING last_seq`, day).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("allocate sale number: %w", err)
	}
	return fmt.Sprintf("%s-%04d", day, seq), nil
}

// CreateSale writes the sale header, its items and one ledger entry per
// item inside a single transaction. Any failure, including a stock
// shortage discovered under the row lock, rolls the whole sale back.
func (r *postgresRepo) CreateSale(ctx context.Context, sale *Sale, day string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sale.SaleNumber, err = r.allocateNumber(ctx, tx, day)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		  (id, sale_number, sale_date, cashier_id, customer_name, customer_phone,
		   total_amount, discount_amount, discount_reason, final_amount,
		   payment_method, is_voided)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,FALSE)`,
		sale.ID, sale.SaleNumber, sale.SaleDate, sale.CashierID,
		nullString(sale.CustomerName), nullString(sale.CustomerPhone),
		sale.TotalAmount, sale.DiscountAmount, nullString(sale.DiscountReason),
		sale.FinalAmount, sale.PaymentMethod)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range sale.Items {
		item.SaleID = sale.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items
			  (id, sale_id, product_id, product_name, sale_type,
			   quantity_kg, quantity_bags, price_per_unit, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, item.SaleID, item.ProductID, item.ProductName, item.SaleType,
			item.QuantityKg, item.QuantityBags, item.PricePerUnit, item.Subtotal)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}

		entry := inventory.Entry{
			ProductID:     item.ProductID,
			Kind:          inventory.KindSale,
			ReferenceID:   &sale.ID,
			ReferenceType: "sale",
			PerformedBy:   sale.CashierID,
			Notes:         "Sale #" + sale.SaleNumber,
		}
		if item.SaleType == ByKg {
			entry.KgDelta = item.QuantityKg.Decimal.Neg()
		} else {
			entry.BagsDelta = -*item.QuantityBags
		}
		if err := r.ledger.ApplyTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const saleColumns = `id, sale_number, sale_date, cashier_id, customer_name, customer_phone,
	total_amount, discount_amount, discount_reason, final_amount, payment_method, is_voided, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	s, err := r.scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	s, err := r.scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE sale_number=$1`, number))
	if err != nil {
		return nil, err
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		s, err := r.scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *postgresRepo) ProductForSale(ctx context.Context, productID string) (*ProductSnapshot, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	p := &ProductSnapshot{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, price_per_kg, bag_size_kg, price_per_bag, is_active
		FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.Name, &p.PricePerKg, &p.BagSizeKg, &p.PricePerBag, &p.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) StockForSale(ctx context.Context, productID string) (*StockView, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	v := &StockView{}
	err = r.db.QueryRowContext(ctx, `
		SELECT quantity_kg, quantity_bags FROM stock_levels WHERE product_id=$1`, uid).
		Scan(&v.QuantityKg, &v.QuantityBags)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ── scanners ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scanSale(row rowScanner) (*Sale, error) {
	s := &Sale{}
	var customerName, customerPhone, discountReason sql.NullString
	err := row.Scan(&s.ID, &s.SaleNumber, &s.SaleDate, &s.CashierID,
		&customerName, &customerPhone, &s.TotalAmount, &s.DiscountAmount,
		&discountReason, &s.FinalAmount, &s.PaymentMethod, &s.IsVoided, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.CustomerName = customerName.String
	s.CustomerPhone = customerPhone.String
	s.DiscountReason = discountReason.String
	return s, nil
}

func (r *postgresRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, product_name, sale_type,
		       quantity_kg, quantity_bags, price_per_unit, subtotal, created_at
		FROM sale_items WHERE sale_id=$1 ORDER BY created_at ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*SaleItem
	for rows.Next() {
		item := &SaleItem{}
		var bags sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.SaleType, &item.QuantityKg, &bags, &item.PricePerUnit,
			&item.Subtotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		if bags.Valid {
			n := int(bags.Int64)
			item.QuantityBags = &n
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
