package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

func syncStateMark(s models.SyncState) string {
	if s == models.SyncStateSynced {
		return ""
	}
	return " *pending"
}

// List prints the current user's watchlists, one line per list, with a
// pending marker for rows not yet confirmed by the backend.
func (a *App) List(ctx context.Context) error {
	lists, err := a.watchlistService.List(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to list watchlists", "error", err)
		return err
	}
	if len(lists) == 0 {
		fmt.Println("No watchlists yet. Use 'create <name> [symbols...]' to add one.")
		return nil
	}
	for _, w := range lists {
		fmt.Printf("%s  %s [%s]%s\n",
			w.ID, w.Name, strings.Join(w.Symbols, ", "), syncStateMark(w.SyncState))
	}
	return nil
}

// Create adds a new watchlist. The list appears immediately; if the backend
// is unreachable the push happens in the background.
func (a *App) Create(ctx context.Context, name string, symbols []string) error {
	w, err := a.watchlistService.Create(ctx, name, symbols)
	if err != nil {
		a.log.Error(ctx, "failed to create watchlist", "error", err)
		return err
	}
	fmt.Printf("Created %s (%s)%s\n", w.Name, w.ID, syncStateMark(w.SyncState))
	return nil
}

// Delete removes a watchlist by id.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.watchlistService.Delete(ctx, id); err != nil {
		a.log.Error(ctx, "failed to delete watchlist", "error", err)
		return err
	}
	fmt.Println("Deleted")
	return nil
}

// AddSymbols appends ticker symbols to a watchlist.
func (a *App) AddSymbols(ctx context.Context, id string, symbols []string) error {
	w, err := a.watchlistService.AddSymbols(ctx, id, symbols)
	if err != nil {
		a.log.Error(ctx, "failed to add symbols", "error", err)
		return err
	}
	if w == nil {
		fmt.Println("No such watchlist:", id)
		return nil
	}
	fmt.Printf("%s [%s]%s\n", w.Name, strings.Join(w.Symbols, ", "), syncStateMark(w.SyncState))
	return nil
}

// RemoveSymbol removes one ticker symbol from a watchlist.
func (a *App) RemoveSymbol(ctx context.Context, id, symbol string) error {
	w, err := a.watchlistService.RemoveSymbol(ctx, id, symbol)
	if err != nil {
		a.log.Error(ctx, "failed to remove symbol", "error", err)
		return err
	}
	if w == nil {
		fmt.Println("No such watchlist:", id)
		return nil
	}
	fmt.Printf("%s [%s]%s\n", w.Name, strings.Join(w.Symbols, ", "), syncStateMark(w.SyncState))
	return nil
}

// Sync schedules an immediate push of pending changes.
func (a *App) Sync(ctx context.Context) error {
	a.watchlistService.RequestSync()
	fmt.Println("Sync scheduled")
	return nil
}
