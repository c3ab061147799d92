package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/watchlists"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
	"github.com/google/uuid"
)

// SyncJobKey is the singleton job key under which drain work is scheduled.
// Its uniqueness is what coalesces overlapping sync requests.
const SyncJobKey = "watchlist_sync"

// WatchlistService applies watchlist mutations.
//
// Contract: a remote failure never surfaces as an error. Mutations return
// the persisted record, whose SyncState says whether the remote push
// succeeded (synced) or was deferred (pending_upsert). Errors are reserved
// for local-store failures.
type WatchlistService interface {
	Create(ctx context.Context, name string, symbols []string) (*models.Watchlist, error)
	Upsert(ctx context.Context, w *models.Watchlist) (*models.Watchlist, error)
	Delete(ctx context.Context, id string) error
	AddSymbols(ctx context.Context, id string, symbols []string) (*models.Watchlist, error)
	RemoveSymbol(ctx context.Context, id, symbol string) (*models.Watchlist, error)
	List(ctx context.Context) ([]models.Watchlist, error)
	Get(ctx context.Context, id string) (*models.Watchlist, error)
	RequestSync()
}

type watchlistService struct {
	client        client.Client
	watchlistRepo watchlists.Repository
	userRepo      users.Repository
	requestDrain  func()
	log           logging.Logger
}

// NewWatchlistService constructs a WatchlistService. requestDrain is invoked
// whenever a remote push fails and a background replay is needed; it must be
// safe to call from any goroutine.
func NewWatchlistService(
	apiClient client.Client,
	watchlistRepo watchlists.Repository,
	userRepo users.Repository,
	requestDrain func(),
	log logging.Logger,
) WatchlistService {
	return &watchlistService{
		client:        apiClient,
		watchlistRepo: watchlistRepo,
		userRepo:      userRepo,
		requestDrain:  requestDrain,
		log:           log,
	}
}

// Create mints a new watchlist owned by the current user and pushes it.
func (s *watchlistService) Create(ctx context.Context, name string, symbols []string) (*models.Watchlist, error) {
	user, err := s.userRepo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	w := &models.Watchlist{
		ID:      uuid.NewString(),
		UserID:  user.UserID,
		Name:    name,
		Symbols: slices.Clone(symbols),
	}
	return s.Upsert(ctx, w)
}

// Upsert attempts the remote push first, then persists the authoritative
// local result: synced on success, pending on any remote failure. The
// failure path also schedules a background drain.
func (s *watchlistService) Upsert(ctx context.Context, w *models.Watchlist) (*models.Watchlist, error) {
	out := *w
	out.Symbols = slices.Clone(w.Symbols)

	if err := s.client.UpsertWatchlist(ctx, w); err != nil {
		s.log.Warn(ctx, "online upsert failed, falling back to offline queue",
			"watchlist_id", w.ID, "error", err)

		out.SyncState = models.SyncStatePendingUpsert
		if err := s.watchlistRepo.Save(ctx, &out); err != nil {
			return nil, fmt.Errorf("saving error: %w", err)
		}
		s.requestDrain()
		return &out, nil
	}

	out.SyncState = models.SyncStateSynced
	if err := s.watchlistRepo.Save(ctx, &out); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	s.log.Debug(ctx, "watchlist pushed online and saved as synced", "watchlist_id", w.ID)
	return &out, nil
}

// Delete removes a watchlist. On remote failure the row becomes a tombstone
// and stays in storage until a drain confirms the delete. Deleting an
// unknown id is a no-op success.
func (s *watchlistService) Delete(ctx context.Context, id string) error {
	if _, err := s.watchlistRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.client.DeleteWatchlist(ctx, id); err != nil {
		s.log.Warn(ctx, "online delete failed, marking for sync",
			"watchlist_id", id, "error", err)

		if err := s.watchlistRepo.MarkTombstoned(ctx, id); err != nil {
			return fmt.Errorf("error marking watchlist deleted: %w", err)
		}
		s.requestDrain()
		return nil
	}

	if err := s.watchlistRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting watchlist: %w", err)
	}
	s.log.Debug(ctx, "watchlist deleted on backend and locally", "watchlist_id", id)
	return nil
}

// AddSymbols appends symbols to an existing watchlist and pushes the result.
// An unknown id is a no-op: nothing is stored and no remote call is made.
func (s *watchlistService) AddSymbols(ctx context.Context, id string, symbols []string) (*models.Watchlist, error) {
	w, err := s.watchlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "add symbols skipped, watchlist not found", "watchlist_id", id)
			return nil, nil
		}
		return nil, err
	}
	return s.Upsert(ctx, w.WithSymbolsAdded(symbols))
}

// RemoveSymbol removes one symbol and pushes the result. An unknown id is a
// no-op.
func (s *watchlistService) RemoveSymbol(ctx context.Context, id, symbol string) (*models.Watchlist, error) {
	w, err := s.watchlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "remove symbol skipped, watchlist not found", "watchlist_id", id)
			return nil, nil
		}
		return nil, err
	}
	return s.Upsert(ctx, w.WithSymbolRemoved(symbol))
}

// List returns the current user's active watchlists. With no user logged in
// the result is empty.
func (s *watchlistService) List(ctx context.Context) ([]models.Watchlist, error) {
	user, err := s.userRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoUser) {
			s.log.Error(ctx, "no user logged in, returning empty watchlist")
			return nil, nil
		}
		return nil, err
	}
	return s.watchlistRepo.GetByUser(ctx, user.UserID)
}

// Get returns a single active watchlist by id.
func (s *watchlistService) Get(ctx context.Context, id string) (*models.Watchlist, error) {
	return s.watchlistRepo.GetByID(ctx, id)
}

// RequestSync schedules a drain on explicit user request ("sync now").
func (s *watchlistService) RequestSync() {
	s.log.Debug(context.Background(), "manual sync triggered")
	s.requestDrain()
}
