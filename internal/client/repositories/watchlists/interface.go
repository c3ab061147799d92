package watchlists

import (
	"context"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

// Repository describes CRUD and query operations for Watchlist records.
// Implementations are typically backed by the local SQLite database.
//
// "Active" reads (GetByID, GetByUser) exclude tombstoned rows; tombstones
// stay in storage until the remote delete is confirmed and are only visible
// through GetAllPending.
type Repository interface {
	// Save inserts a new watchlist or overwrites an existing one by ID
	// (whole-row upsert).
	Save(ctx context.Context, w *models.Watchlist) error

	// GetByID returns a single non-tombstoned watchlist, or
	// common.ErrNotFound if no such row exists.
	GetByID(ctx context.Context, id string) (*models.Watchlist, error)

	// GetByUser returns all non-tombstoned watchlists owned by userID.
	GetByUser(ctx context.Context, userID string) ([]models.Watchlist, error)

	// GetAllPending returns records awaiting sync (any user, tombstones
	// included).
	GetAllPending(ctx context.Context) ([]*models.Watchlist, error)

	// Delete physically removes a row. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// MarkSynced flips a row to the synced state, leaving content unchanged.
	MarkSynced(ctx context.Context, id string) error

	// MarkTombstoned flips a row to the pending-delete state.
	MarkTombstoned(ctx context.Context, id string) error

	// ReassignUser re-homes every row owned by oldUserID to newUserID.
	// Used when the backend issues a fresh user id at login.
	ReassignUser(ctx context.Context, oldUserID, newUserID string) error

	// Clear removes all rows.
	Clear(ctx context.Context) error
}
