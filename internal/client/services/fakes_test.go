package services

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"testing"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/watchlists"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
  email TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  password TEXT NOT NULL DEFAULT ''
);

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

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func storeUser(t *testing.T, db *sql.DB, u *models.User) {
	t.Helper()
	require.NoError(t, users.NewSQLiteRepository(db).Save(context.Background(), u))
}

func storeWatchlist(t *testing.T, db *sql.DB, w *models.Watchlist) {
	t.Helper()
	require.NoError(t, watchlists.NewSQLiteRepository(db).Save(context.Background(), w))
}

// fakeClient implements client.Client with configurable failures and call
// recording.
type fakeClient struct {
	upsertErr error
	deleteErr error

	upsertCalls []models.Watchlist
	deleteCalls []string

	createUserID  string
	createUserErr error

	shareLink string
	shareErr  error

	shared    *models.Watchlist
	sharedErr error

	news    *models.NewsResponse
	newsErr error

	healthErr error
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) CreateUser(ctx context.Context, u *models.User) (string, error) {
	return f.createUserID, f.createUserErr
}

func (f *fakeClient) UpsertWatchlist(ctx context.Context, w *models.Watchlist) error {
	c := *w
	c.Symbols = slices.Clone(w.Symbols)
	f.upsertCalls = append(f.upsertCalls, c)
	return f.upsertErr
}

func (f *fakeClient) DeleteWatchlist(ctx context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeClient) ListWatchlists(ctx context.Context, userID string) ([]models.Watchlist, error) {
	return nil, nil
}

func (f *fakeClient) ShareWatchlist(ctx context.Context, watchlistID, email string) (string, error) {
	return f.shareLink, f.shareErr
}

func (f *fakeClient) GetSharedWatchlist(ctx context.Context, otp, userID string) (*models.Watchlist, error) {
	return f.shared, f.sharedErr
}

func (f *fakeClient) GetNews(ctx context.Context, symbol string) (*models.NewsResponse, error) {
	return f.news, f.newsErr
}

func (f *fakeClient) Health(ctx context.Context) error { return f.healthErr }

// drainCounter stands in for the scheduler in reconciler tests.
type drainCounter struct {
	calls int
}

func (d *drainCounter) request() { d.calls++ }
