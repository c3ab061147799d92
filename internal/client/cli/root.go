package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/stocksentry/internal/common"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the previous session (or prompts for one), starts the
// connectivity machinery and hands control to the REPL. It blocks until the
// user exits.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to StockSentry CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoUser) {
			a.log.Error(ctx, "failed to restore session", "error", err)
		}
		_ = a.Login(ctx)
	} else {
		a.userName = u.Email
		fmt.Printf("Welcome back, %s\n", u.Email)
		// Pending changes of the restored session sync in the background.
		a.watchlistService.RequestSync()
	}

	go a.monitor.Start(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, scanner)
}
