package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/config"
	"github.com/dmitrijs2005/stocksentry/internal/client/jobs"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/watchlists"
	"github.com/dmitrijs2005/stocksentry/internal/client/services"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
	"github.com/dmitrijs2005/stocksentry/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config           *config.Config
	log              logging.Logger
	authService      services.AuthService
	watchlistService services.WatchlistService
	shareService     services.ShareService
	newsService      services.NewsService
	scheduler        *jobs.Scheduler
	monitor          *netx.Monitor
	userName         string
	Mode             Mode
	reader           *bufio.Reader
}

// NewApp wires the local database, API client, services, connectivity
// monitor and sync scheduler into a runnable CLI application.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := client.NewStockSentryClient(c.ServerEndpointAddr)

	watchlistRepo := watchlists.NewSQLiteRepository(db)
	userRepo := users.NewSQLiteRepository(db)

	monitor := netx.NewMonitor(apiClient.Health, c.OnlineCheckInterval, log)

	syncSvc := services.NewSyncService(apiClient, watchlistRepo, userRepo, log)
	sched := jobs.NewScheduler(jobs.Options{
		InitialDelay:       c.SyncInitialDelay,
		BackoffBase:        c.SyncBackoffBase,
		BackoffCap:         c.SyncBackoffCap,
		Online:             monitor.Online,
		OnlinePollInterval: c.OnlineCheckInterval,
	}, log)

	// Every mutation that could not reach the backend, and every
	// offline-to-online transition, funnels into the same coalesced job.
	requestDrain := func() { sched.Enqueue(services.SyncJobKey, syncSvc.Drain) }
	monitor.OnOnline(requestDrain)

	wlSvc := services.NewWatchlistService(apiClient, watchlistRepo, userRepo, requestDrain, log)
	as := services.NewAuthService(apiClient, db, log)
	ss := services.NewShareService(apiClient, userRepo, wlSvc, log)
	ns := services.NewNewsService(apiClient)

	return &App{
		config:           c,
		log:              log,
		authService:      as,
		watchlistService: wlSvc,
		shareService:     ss,
		newsService:      ns,
		scheduler:        sched,
		monitor:          monitor,
		reader:           bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	defer a.scheduler.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// StartOnlineStatusWatcher mirrors the connectivity monitor's state into the
// user-visible Mode until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.monitor.Online(ctx) {
				a.setMode(ModeOnline)
			} else {
				a.setMode(ModeOffline)
			}

		case <-ctx.Done():
			return
		}
	}
}
