package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/stocksentry/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and creates a new account via the
// AuthService. Registration succeeds even when the backend is unreachable;
// the account then carries a locally minted id until the first online login.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	phone, err := getSimpleText(a.reader, "Enter phone number (optional)", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.authService.Register(ctx, name, email, phone, string(password))
	if err != nil {
		a.log.Error(ctx, "registration failed", "error", err)
		return err
	}

	a.userName = u.Email
	if u.Offline() {
		fmt.Println("Registered offline; the account syncs when the server is reachable.")
	} else {
		fmt.Println("Success!")
	}
	return nil
}

// Login prompts for credentials and authenticates against the local store.
// A reachable backend additionally refreshes the server-issued user id; an
// unreachable one never fails the login.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Println("Invalid email or password.")
			return nil
		}
		a.log.Error(ctx, "login failed", "error", err)
		return err
	}

	a.userName = u.Email
	fmt.Println("Login successful")

	// Anything left pending from a previous run syncs in the background.
	a.watchlistService.RequestSync()
	return nil
}

// Logout clears the local session. Watchlist data stays on disk and is
// picked up again on the next login with the same account.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	a.userName = ""
	fmt.Println("Logged out")
	return nil
}
