package watchlists

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE watchlists (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  symbols TEXT NOT NULL DEFAULT '[]',
  sync_state TEXT NOT NULL DEFAULT 'pending_upsert'
);
`)
	require.NoError(t, err)

	return db
}

func TestSave_InsertAndOverwrite(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	w1 := &models.Watchlist{
		ID:        "w1",
		UserID:    "u1",
		Name:      "Tech",
		Symbols:   []string{"AAPL", "MSFT"},
		SyncState: models.SyncStatePendingUpsert,
	}
	require.NoError(t, r.Save(ctx, w1))

	got, err := r.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, w1, got)

	// overwrite replaces the whole row
	w2 := &models.Watchlist{
		ID:        "w1",
		UserID:    "u1",
		Name:      "Tech Giants",
		Symbols:   []string{"AAPL"},
		SyncState: models.SyncStateSynced,
	}
	require.NoError(t, r.Save(ctx, w2))

	got, err = r.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, w2, got)

	var cnt int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM watchlists`).Scan(&cnt))
	assert.Equal(t, 1, cnt)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByID_ExcludesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "Tech",
		Symbols: []string{"AAPL"}, SyncState: models.SyncStatePendingDelete,
	}))

	_, err := r.GetByID(ctx, "w1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByUser_ScopesAndExcludesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "Tech",
		Symbols: []string{"AAPL"}, SyncState: models.SyncStateSynced,
	}))
	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w2", UserID: "u1", Name: "Energy",
		Symbols: []string{"XOM"}, SyncState: models.SyncStatePendingDelete,
	}))
	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w3", UserID: "u2", Name: "Other",
		Symbols: []string{"TSLA"}, SyncState: models.SyncStateSynced,
	}))

	got, err := r.GetByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
}

func TestGetAllPending_IncludesTombstonesAnyUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "A",
		Symbols: []string{}, SyncState: models.SyncStateSynced,
	}))
	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w2", UserID: "u1", Name: "B",
		Symbols: []string{}, SyncState: models.SyncStatePendingUpsert,
	}))
	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w3", UserID: "u2", Name: "C",
		Symbols: []string{}, SyncState: models.SyncStatePendingDelete,
	}))

	pending, err := r.GetAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	ids := []string{pending[0].ID, pending[1].ID}
	assert.ElementsMatch(t, []string{"w2", "w3"}, ids)
}

func TestMarkSynced_And_MarkTombstoned(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "A",
		Symbols: []string{"AAPL"}, SyncState: models.SyncStatePendingUpsert,
	}))

	require.NoError(t, r.MarkSynced(ctx, "w1"))
	got, err := r.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.Equal(t, []string{"AAPL"}, got.Symbols)

	require.NoError(t, r.MarkTombstoned(ctx, "w1"))
	_, err = r.GetByID(ctx, "w1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkSynced_MissingRowFails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	assert.Error(t, r.MarkSynced(context.Background(), "missing"))
}

func TestDelete_IsPhysicalAndIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "A",
		Symbols: []string{}, SyncState: models.SyncStatePendingDelete,
	}))

	require.NoError(t, r.Delete(ctx, "w1"))

	var cnt int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM watchlists`).Scan(&cnt))
	assert.Equal(t, 0, cnt)

	// deleting again is a no-op
	require.NoError(t, r.Delete(ctx, "w1"))
}

func TestReassignUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "offline_123", Name: "A",
		Symbols: []string{}, SyncState: models.SyncStatePendingUpsert,
	}))
	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w2", UserID: "u2", Name: "B",
		Symbols: []string{}, SyncState: models.SyncStateSynced,
	}))

	require.NoError(t, r.ReassignUser(ctx, "offline_123", "u9"))

	got, err := r.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "u9", got.UserID)

	got, err = r.GetByID(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "A",
		Symbols: []string{}, SyncState: models.SyncStateSynced,
	}))
	require.NoError(t, r.Clear(ctx))

	var cnt int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM watchlists`).Scan(&cnt))
	assert.Equal(t, 0, cnt)
}
