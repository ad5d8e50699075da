package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, product_code, name, quality, price_per_kg,
	bag_size_kg, price_per_bag, description, is_active, created_at, updated_at`

// Create inserts the product together with its empty stock_levels row so
// inventory operations never see a product without a stock aggregate.
func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products
		  (id, product_code, name, quality, price_per_kg, bag_size_kg, price_per_bag, description, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Code, p.Name, p.Quality, p.PricePerKg, p.BagSizeKg, p.PricePerBag, p.Description, p.IsActive)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_levels (product_id, quantity_kg, quantity_bags) VALUES ($1, 0, 0)`, p.ID)
	if err != nil {
		return fmt.Errorf("insert stock level: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Product, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_code=$1`, code))
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, quality=$2, price_per_kg=$3, bag_size_kg=$4,
		    price_per_bag=$5, description=$6, updated_at=$7
		WHERE id=$8`,
		p.Name, p.Quality, p.PricePerKg, p.BagSizeKg, p.PricePerBag,
		p.Description, time.Now(), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active=$1, updated_at=$2 WHERE id=$3`, active, time.Now(), uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Quality, &p.PricePerKg,
		&p.BagSizeKg, &p.PricePerBag, &p.Description, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
