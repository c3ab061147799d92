package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
	"github.com/google/uuid"
)

// DeepLinkPrefix is the scheme used for locally built share links when the
// backend cannot issue one.
const DeepLinkPrefix = "stocksentry://share/"

// ShareService maps watchlists to share tokens and back.
type ShareService interface {
	// Share requests a deep link for the watchlist. A backend failure
	// degrades to a locally built link rather than an error.
	Share(ctx context.Context, watchlistID, email string) (string, error)

	// Resolve fetches a shared watchlist by its OTP token and imports a
	// copy owned by the current user through the reconciler, so an
	// offline import queues like any other mutation.
	Resolve(ctx context.Context, otp string) (*models.Watchlist, error)
}

type shareService struct {
	client       client.Client
	userRepo     users.Repository
	watchlistSvc WatchlistService
	log          logging.Logger
}

// NewShareService constructs a ShareService on top of the reconciler.
func NewShareService(
	apiClient client.Client,
	userRepo users.Repository,
	watchlistSvc WatchlistService,
	log logging.Logger,
) ShareService {
	return &shareService{
		client:       apiClient,
		userRepo:     userRepo,
		watchlistSvc: watchlistSvc,
		log:          log,
	}
}

func (s *shareService) Share(ctx context.Context, watchlistID, email string) (string, error) {
	link, err := s.client.ShareWatchlist(ctx, watchlistID, email)
	if err != nil {
		s.log.Warn(ctx, "share request failed, returning local deep link",
			"watchlist_id", watchlistID, "error", err)
		return DeepLinkPrefix + watchlistID, nil
	}
	return link, nil
}

func (s *shareService) Resolve(ctx context.Context, otp string) (*models.Watchlist, error) {
	user, err := s.userRepo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	shared, err := s.client.GetSharedWatchlist(ctx, otp, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("error resolving shared watchlist: %w", err)
	}

	// Import under a fresh id: keeping the sharer's id would make our
	// later upserts overwrite their copy.
	imported := &models.Watchlist{
		ID:      uuid.NewString(),
		UserID:  user.UserID,
		Name:    shared.Name,
		Symbols: shared.Symbols,
	}
	return s.watchlistSvc.Upsert(ctx, imported)
}
