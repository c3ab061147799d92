// Package users persists the active user session in the local client store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/dmitrijs2005/stocksentry/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a user by email.
func (r *SQLiteRepository) Save(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (email, user_id, name, phone_number, password)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(email) DO UPDATE SET user_id = excluded.user_id,
				name = excluded.name,
				phone_number = excluded.phone_number,
				password = excluded.password
	`
	_, err := r.db.ExecContext(ctx, query,
		u.Email, u.UserID, u.Name, u.PhoneNumber, u.Password)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetCurrent returns the single active user row.
func (r *SQLiteRepository) GetCurrent(ctx context.Context) (*models.User, error) {
	query := `select email, user_id, name, phone_number, password from users limit 1`
	row := r.db.QueryRowContext(ctx, query)

	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNoUser
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return u, nil
}

// GetByEmail returns a user by email.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `select email, user_id, name, phone_number, password from users where email=?`
	row := r.db.QueryRowContext(ctx, query, email)

	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return u, nil
}

// UpdateUserID replaces the remote-issued id for the given email.
func (r *SQLiteRepository) UpdateUserID(ctx context.Context, email, newUserID string) error {
	query := `update users set user_id=? where email=?`
	res, err := r.db.ExecContext(ctx, query, newUserID, email)
	if err != nil {
		return fmt.Errorf("failed to update user id: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// Clear removes all user rows.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	u := &models.User{}
	if err := scan(&u.Email, &u.UserID, &u.Name, &u.PhoneNumber, &u.Password); err != nil {
		return nil, err
	}
	return u, nil
}
