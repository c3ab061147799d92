package watchlists

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/dmitrijs2005/stocksentry/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Symbols are stored as a JSON array in a TEXT column.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a watchlist by id. On conflict the whole row is overwritten.
func (r *SQLiteRepository) Save(ctx context.Context, w *models.Watchlist) error {
	symbols, err := json.Marshal(w.Symbols)
	if err != nil {
		return fmt.Errorf("failed to encode symbols: %w", err)
	}

	query := `INSERT INTO watchlists (id, user_id, name, symbols, sync_state)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
				name = excluded.name,
				symbols = excluded.symbols,
				sync_state = excluded.sync_state
	`
	_, err = r.db.ExecContext(ctx, query,
		w.ID, w.UserID, w.Name, string(symbols), string(w.SyncState))
	if err != nil {
		return fmt.Errorf("failed to upsert watchlist: %w", err)
	}
	return nil
}

// GetByID returns a single non-tombstoned watchlist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Watchlist, error) {
	query := `select id, user_id, name, symbols, sync_state from watchlists
			where id=? and sync_state<>?`
	row := r.db.QueryRowContext(ctx, query, id, string(models.SyncStatePendingDelete))

	w, err := scanWatchlist(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return w, nil
}

// GetByUser lists all non-tombstoned watchlists owned by userID.
func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) ([]models.Watchlist, error) {
	query := `select id, user_id, name, symbols, sync_state from watchlists
			where user_id=? and sync_state<>?`
	rows, err := r.db.QueryContext(ctx, query, userID, string(models.SyncStatePendingDelete))
	if err != nil {
		return nil, fmt.Errorf("failed to select watchlists: %w", err)
	}
	defer rows.Close()

	var result []models.Watchlist
	for rows.Next() {
		w, err := scanWatchlist(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAllPending returns records not yet confirmed against the remote service,
// tombstones included, regardless of owner.
func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]*models.Watchlist, error) {
	query := `select id, user_id, name, symbols, sync_state from watchlists
			where sync_state<>?`
	rows, err := r.db.QueryContext(ctx, query, string(models.SyncStateSynced))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	defer rows.Close()

	var pending []*models.Watchlist
	for rows.Next() {
		w, err := scanWatchlist(rows.Scan)
		if err != nil {
			return nil, err
		}
		pending = append(pending, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

// Delete physically removes a row. Unlike edits, a confirmed remote delete
// leaves nothing behind, so zero affected rows is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query := `delete from watchlists where id=?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	return nil
}

// MarkSynced flips a row to the synced state.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.setSyncState(ctx, id, models.SyncStateSynced)
}

// MarkTombstoned flips a row to the pending-delete state.
func (r *SQLiteRepository) MarkTombstoned(ctx context.Context, id string) error {
	return r.setSyncState(ctx, id, models.SyncStatePendingDelete)
}

func (r *SQLiteRepository) setSyncState(ctx context.Context, id string, state models.SyncState) error {
	query := `update watchlists set sync_state=? where id=?`
	res, err := r.db.ExecContext(ctx, query, string(state), id)
	if err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
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

// ReassignUser re-homes rows from oldUserID to newUserID.
func (r *SQLiteRepository) ReassignUser(ctx context.Context, oldUserID, newUserID string) error {
	query := `update watchlists set user_id=? where user_id=?`
	if _, err := r.db.ExecContext(ctx, query, newUserID, oldUserID); err != nil {
		return fmt.Errorf("failed to reassign watchlists: %w", err)
	}
	return nil
}

// Clear removes all rows.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from watchlists`); err != nil {
		return fmt.Errorf("failed to clear watchlists: %w", err)
	}
	return nil
}

func scanWatchlist(scan func(dest ...any) error) (*models.Watchlist, error) {
	w := &models.Watchlist{}
	var symbols, state string
	if err := scan(&w.ID, &w.UserID, &w.Name, &symbols, &state); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(symbols), &w.Symbols); err != nil {
		return nil, fmt.Errorf("failed to decode symbols: %w", err)
	}
	w.SyncState = models.SyncState(state)
	return w, nil
}
