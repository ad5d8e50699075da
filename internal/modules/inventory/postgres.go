package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Apply(ctx context.Context, e Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.ApplyTx(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyTx locks the stock row, verifies the deltas keep both quantities
// non-negative, updates the level and appends the ledger row. The row
// lock serializes concurrent entries against the same product, so two
// racing sales cannot both pass the availability check.
func (r *postgresRepo) ApplyTx(ctx context.Context, tx *sql.Tx, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var kg decimal.Decimal
	var bags int
	err := tx.QueryRowContext(ctx, `
		SELECT quantity_kg, quantity_bags FROM stock_levels
		WHERE product_id=$1 FOR UPDATE`, e.ProductID).Scan(&kg, &bags)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock stock level: %w", err)
	}

	newKg := kg.Add(e.KgDelta)
	if newKg.IsNegative() {
		return &InsufficientStockError{
			ProductID: e.ProductID,
			Unit:      "kg",
			Requested: e.KgDelta.Neg(),
			Available: kg,
		}
	}
	newBags := bags + e.BagsDelta
	if newBags < 0 {
		return &InsufficientStockError{
			ProductID: e.ProductID,
			Unit:      "bags",
			Requested: decimal.NewFromInt(int64(-e.BagsDelta)),
			Available: decimal.NewFromInt(int64(bags)),
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE stock_levels
		SET quantity_kg=$1, quantity_bags=$2, updated_by=$3, updated_at=$4
		WHERE product_id=$5`,
		newKg, newBags, e.PerformedBy, time.Now(), e.ProductID)
	if err != nil {
		return fmt.Errorf("update stock level: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_transactions
		  (id, product_id, kind, quantity_kg_change, quantity_bags_change,
		   reference_id, reference_type, performed_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		uuid.New(), e.ProductID, e.Kind, e.KgDelta, e.BagsDelta,
		e.ReferenceID, nullString(e.ReferenceType), e.PerformedBy, e.Notes)
	if err != nil {
		return fmt.Errorf("append stock transaction: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetLevel(ctx context.Context, productID string) (*StockLevel, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.scanLevel(r.db.QueryRowContext(ctx, `
		SELECT product_id, quantity_kg, quantity_bags, min_stock_kg, updated_by, updated_at
		FROM stock_levels WHERE product_id=$1`, uid))
}

func (r *postgresRepo) ListLevels(ctx context.Context) ([]*StockLevel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity_kg, quantity_bags, min_stock_kg, updated_by, updated_at
		FROM stock_levels ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*StockLevel
	for rows.Next() {
		l, err := r.scanLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *postgresRepo) SetMinStock(ctx context.Context, productID string, minKg decimal.Decimal) error {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_levels SET min_stock_kg=$1, updated_at=$2 WHERE product_id=$3`,
		minKg, time.Now(), uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) History(ctx context.Context, productID string, limit int) ([]*StockTransaction, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, kind, quantity_kg_change, quantity_bags_change,
		       reference_id, reference_type, performed_by, notes, created_at
		FROM stock_transactions
		WHERE product_id=$1
		ORDER BY created_at DESC
		LIMIT $2`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*StockTransaction
	for rows.Next() {
		t := &StockTransaction{}
		var refID sql.NullString
		var refType sql.NullString
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Kind, &t.KgChange, &t.BagsChange,
			&refID, &refType, &t.PerformedBy, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		if refID.Valid {
			rid, _ := uuid.Parse(refID.String)
			t.ReferenceID = &rid
		}
		if refType.Valid {
			t.ReferenceType = refType.String
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scanLevel(row rowScanner) (*StockLevel, error) {
	l := &StockLevel{}
	var updatedBy sql.NullString
	err := row.Scan(&l.ProductID, &l.QuantityKg, &l.QuantityBags, &l.MinStockKg,
		&updatedBy, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if updatedBy.Valid {
		uid, _ := uuid.Parse(updatedBy.String)
		l.UpdatedBy = &uid
	}
	return l, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
