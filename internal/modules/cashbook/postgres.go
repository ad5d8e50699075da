package cashbook

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type postgresRepository struct{ db *sql.DB }

// NewPostgresRepository creates a PostgreSQL cash book repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePayout(ctx context.Context, p *Payout) error {
	query := `
		INSERT INTO payouts (id, amount, reason, performed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Amount, p.Reason, p.PerformedBy, p.Notes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (r *postgresRepository) PayoutsBetween(ctx context.Context, start, end time.Time) ([]*Payout, error) {
	query := `
		SELECT id, amount, reason, performed_by, notes, created_at
		FROM payouts
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*Payout
	for rows.Next() {
		p := &Payout{}
		if err := rows.Scan(&p.ID, &p.Amount, &p.Reason, &p.PerformedBy, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *postgresRepository) PayoutTotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payouts
		WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum payouts: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) CashSalesBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(final_amount), 0)
		FROM sales
		WHERE payment_method = 'cash'
		  AND is_voided = false
		  AND sale_date >= $1 AND sale_date < $2`
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash sales: %w", err)
	}
	return total, nil
}
