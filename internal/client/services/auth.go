package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/users"
	"github.com/dmitrijs2005/stocksentry/internal/client/repositories/watchlists"
	"github.com/dmitrijs2005/stocksentry/internal/common"
	"github.com/dmitrijs2005/stocksentry/internal/dbx"
	"github.com/dmitrijs2005/stocksentry/internal/logging"
)

// AuthService handles registration, login and session housekeeping.
//
// Contract:
//   - Register: create the user on the backend; a network failure degrades
//     to a locally minted offline id, never to a registration error.
//   - Login: verify credentials against the local store; best-effort refresh
//     of the backend-issued user id, re-homing watchlists when it changes.
//   - Logout: clear the local session. Watchlist rows are retained; the
//     drain pass skips rows of other users.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by the remote Client and
// the local SQL database.
type authService struct {
	client client.Client
	db     *sql.DB
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(apiClient client.Client, db *sql.DB, log logging.Logger) AuthService {
	return &authService{client: apiClient, db: db, log: log}
}

func (a *authService) userRepo() users.Repository {
	return users.NewSQLiteRepository(a.db)
}

// Register creates an account. The backend issues the user id; when it is
// unreachable a local offline id is minted instead and the backend id is
// picked up on the next successful login.
func (a *authService) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	u := &models.User{
		Email:       normalizeEmail(email),
		Name:        name,
		PhoneNumber: strings.TrimSpace(phone),
		Password:    strings.TrimSpace(password),
	}

	userID, err := a.client.CreateUser(ctx, u)
	if err != nil {
		a.log.Warn(ctx, "signup network failed, storing offline user", "error", err)
		userID = fmt.Sprintf("%s%d", models.OfflineUserIDPrefix, time.Now().UnixMilli())
	}
	u.UserID = userID

	if err := a.userRepo().Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to store user locally: %w", err)
	}
	return u, nil
}

// Login verifies the password against the locally stored one (verbatim
// compare, as the original client does) and then refreshes the backend user
// id best-effort. A backend failure never fails the login.
func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	u, err := a.userRepo().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	if u.Password != password {
		return nil, common.ErrUnauthorized
	}

	newID, err := a.client.CreateUser(ctx, u)
	if err != nil {
		a.log.Warn(ctx, "backend sync during login failed", "error", err)
		return u, nil
	}

	if newID != "" && newID != u.UserID {
		oldID := u.UserID
		// The id swap and the watchlist re-homing must land together,
		// or pending rows would be orphaned under the stale id.
		err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := users.NewSQLiteRepository(tx).UpdateUserID(ctx, email, newID); err != nil {
				return err
			}
			return watchlists.NewSQLiteRepository(tx).ReassignUser(ctx, oldID, newID)
		})
		if err != nil {
			a.log.Error(ctx, "failed to update local user on login", "error", err)
			return u, nil
		}
		a.log.Debug(ctx, "backend user id refreshed", "old", oldID, "new", newID)
		u.UserID = newID
	}
	return u, nil
}

// CurrentUser returns the active session, or common.ErrNoUser.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return a.userRepo().GetCurrent(ctx)
}

// Logout clears the local session.
func (a *authService) Logout(ctx context.Context) error {
	return a.userRepo().Clear(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
