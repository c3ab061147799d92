package users

import (
	"context"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

// Repository persists the active user session. The store is expected to hold
// at most one row at a time; Save replaces any previous session.
type Repository interface {
	// Save upserts a user by email.
	Save(ctx context.Context, u *models.User) error

	// GetCurrent returns the active user, or common.ErrNoUser when none
	// is stored.
	GetCurrent(ctx context.Context) (*models.User, error)

	// GetByEmail returns a user by email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUserID replaces the remote-issued id for the given email.
	UpdateUserID(ctx context.Context, email, newUserID string) error

	// Clear removes all user rows (user switch / logout).
	Clear(ctx context.Context) error
}
