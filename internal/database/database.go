package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// schema is the full physical layout of the ledger store. stock_levels is
// the only mutable aggregate; stock_transactions, sales, sale_items and
// payouts are written once and never updated or deleted.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'cashier')),
	full_name     TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id            UUID PRIMARY KEY,
	product_code  TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	quality       TEXT NOT NULL CHECK (quality IN ('premium', 'standard', 'economic')),
	price_per_kg  NUMERIC(12,2) NOT NULL,
	bag_size_kg   NUMERIC(10,2),
	price_per_bag NUMERIC(12,2),
	description   TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stock_levels (
	product_id    UUID PRIMARY KEY REFERENCES products(id),
	quantity_kg   NUMERIC(12,3) NOT NULL DEFAULT 0 CHECK (quantity_kg >= 0),
	quantity_bags INTEGER NOT NULL DEFAULT 0 CHECK (quantity_bags >= 0),
	min_stock_kg  NUMERIC(12,3) NOT NULL DEFAULT 50,
	updated_by    UUID REFERENCES users(id),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stock_transactions (
	id                   UUID PRIMARY KEY,
	product_id           UUID NOT NULL REFERENCES products(id),
	kind                 TEXT NOT NULL CHECK (kind IN ('sale', 'restock', 'adjustment')),
	quantity_kg_change   NUMERIC(12,3) NOT NULL DEFAULT 0,
	quantity_bags_change INTEGER NOT NULL DEFAULT 0,
	reference_id         UUID,
	reference_type       TEXT,
	performed_by         UUID NOT NULL REFERENCES users(id),
	notes                TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_stock_transactions_product
	ON stock_transactions(product_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_stock_transactions_reference
	ON stock_transactions(reference_id) WHERE reference_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS sales (
	id              UUID PRIMARY KEY,
	sale_number     TEXT NOT NULL UNIQUE,
	sale_date       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	cashier_id      UUID NOT NULL REFERENCES users(id),
	customer_name   TEXT,
	customer_phone  TEXT,
	total_amount    NUMERIC(12,2) NOT NULL,
	discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
	discount_reason TEXT,
	final_amount    NUMERIC(12,2) NOT NULL,
	payment_method  TEXT NOT NULL CHECK (payment_method IN ('cash', 'credit')),
	is_voided       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date DESC);

CREATE TABLE IF NOT EXISTS sale_items (
	id             UUID PRIMARY KEY,
	sale_id        UUID NOT NULL REFERENCES sales(id),
	product_id     UUID NOT NULL REFERENCES products(id),
	product_name   TEXT NOT NULL,
	sale_type      TEXT NOT NULL CHECK (sale_type IN ('by_kg', 'by_bag')),
	quantity_kg    NUMERIC(12,3),
	quantity_bags  INTEGER,
	price_per_unit NUMERIC(12,2) NOT NULL,
	subtotal       NUMERIC(12,2) NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);

CREATE TABLE IF NOT EXISTS sale_counters (
	day      TEXT PRIMARY KEY,
	last_seq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payouts (
	id           UUID PRIMARY KEY,
	amount       NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	reason       TEXT NOT NULL,
	performed_by UUID NOT NULL REFERENCES users(id),
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_payouts_date ON payouts(created_at DESC);
`

// Migrate creates the schema and seeds the default admin account when no
// users exist yet.
func Migrate(ctx context.Context, db *sql.DB, adminPassword string) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, full_name)
		VALUES (gen_random_uuid(), 'admin', $1, 'admin', 'Administrator')`, string(hash))
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}
