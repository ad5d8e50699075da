package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepository struct{ db *sql.DB }

// NewPostgresRepository creates a PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, username, password_hash, role, full_name, is_active, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, full_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.FullName, u.IsActive)
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, uid))
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1`, username))
}

func (r *postgresRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active=$1, updated_at=$2 WHERE id=$3`, active, time.Now(), uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1, updated_at=$2 WHERE id=$3`, passwordHash, time.Now(), uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepository) scan(row rowScanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
