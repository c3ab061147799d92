package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/jobs"
	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/watchlists"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
)

// SyncService drains locally pending watchlists against the remote API.
// Drain is the entry point executed by the jobs scheduler under SyncJobKey.
type SyncService interface {
	Drain(ctx context.Context) jobs.Outcome
}

type syncService struct {
	client        client.Client
	watchlistRepo watchlists.Repository
	userRepo      users.Repository
	log           logging.Logger
}

// NewSyncService constructs the drain pass over the given store and client.
func NewSyncService(
	apiClient client.Client,
	watchlistRepo watchlists.Repository,
	userRepo users.Repository,
	log logging.Logger,
) SyncService {
	return &syncService{
		client:        apiClient,
		watchlistRepo: watchlistRepo,
		userRepo:      userRepo,
		log:           log,
	}
}

// Drain reconciles every pending record owned by the current user in one
// pass. Each record is replayed independently; one failure never aborts the
// rest. The replay is idempotent, so re-running after a partial pass is
// harmless.
//
// Outcomes: Retry when at least one record failed (the scheduler backs off
// and re-runs), Done when everything succeeded or there was nothing to do,
// Failed only on local-store errors.
func (s *syncService) Drain(ctx context.Context) jobs.Outcome {
	user, err := s.userRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoUser) {
			s.log.Debug(ctx, "no user logged in, skipping sync")
			return jobs.OutcomeDone
		}
		s.log.Error(ctx, "failed to resolve current user", "error", err)
		return jobs.OutcomeFailed
	}

	pending, err := s.watchlistRepo.GetAllPending(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to load pending watchlists", "error", err)
		return jobs.OutcomeFailed
	}
	if len(pending) == 0 {
		s.log.Debug(ctx, "no pending watchlists to sync")
		return jobs.OutcomeDone
	}
	s.log.Debug(ctx, "found pending watchlists to sync", "count", len(pending))

	var succeeded, failed int
	for _, w := range pending {
		// Pending rows of a previous user are skipped, not failed:
		// they must not leak into this account's sync traffic.
		if w.UserID != user.UserID {
			s.log.Debug(ctx, "skipping watchlist of different user", "watchlist_id", w.ID)
			continue
		}

		if err := s.replay(ctx, w); err != nil {
			failed++
			s.log.Error(ctx, "error syncing watchlist", "watchlist_id", w.ID, "error", err)
			continue
		}
		succeeded++
	}

	s.log.Info(ctx, "sync completed", "succeeded", succeeded, "failed", failed)
	if failed > 0 {
		return jobs.OutcomeRetry
	}
	return jobs.OutcomeDone
}

// replay pushes one pending record: tombstones turn into a remote delete
// followed by physical removal, everything else into a remote upsert
// followed by the synced mark. Local content is never touched beyond the
// sync state.
func (s *syncService) replay(ctx context.Context, w *models.Watchlist) error {
	if w.Tombstoned() {
		if err := s.client.DeleteWatchlist(ctx, w.ID); err != nil {
			return err
		}
		return s.watchlistRepo.Delete(ctx, w.ID)
	}

	if err := s.client.UpsertWatchlist(ctx, w); err != nil {
		return err
	}
	return s.watchlistRepo.MarkSynced(ctx, w.ID)
}
