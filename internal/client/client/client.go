package client

import (
	"context"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

// Client abstracts the remote StockSentry API consumed by the reconciliation
// logic and the outer surfaces (auth, share, news).
//
// Remote failures surface as the typed errors in errors.go; callers match
// them with errors.Is. DeleteWatchlist is idempotent: deleting an already
// absent remote record is success.
type Client interface {
	Close() error
	CreateUser(ctx context.Context, u *models.User) (string, error)
	UpsertWatchlist(ctx context.Context, w *models.Watchlist) error
	DeleteWatchlist(ctx context.Context, id string) error
	ListWatchlists(ctx context.Context, userID string) ([]models.Watchlist, error)
	ShareWatchlist(ctx context.Context, watchlistID, email string) (string, error)
	GetSharedWatchlist(ctx context.Context, otp, userID string) (*models.Watchlist, error)
	GetNews(ctx context.Context, symbol string) (*models.NewsResponse, error)
	Health(ctx context.Context) error
}
