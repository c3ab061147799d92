package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Create(ctx context.Context, name string, symbols []string) error
	Delete(ctx context.Context, id string) error
	AddSymbols(ctx context.Context, id string, symbols []string) error
	RemoveSymbol(ctx context.Context, id, symbol string) error
	Sync(ctx context.Context) error
	Share(ctx context.Context, id, email string) error
	Open(ctx context.Context, otp string) error
	News(ctx context.Context, symbol string) error
}

// runREPL starts a simple read–eval–print loop for the StockSentry CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                   — show available commands
//	  - register               — create an account
//	  - login                  — authenticate
//	  - exit | quit            — leave the program
//
//	Logged in:
//	  - help                   — show available commands
//	  - list | l               — list watchlists with sync state
//	  - create <name> [sym…]   — create a watchlist
//	  - del <id>               — delete a watchlist
//	  - add <id> <sym…>        — add symbols to a watchlist
//	  - rm <id> <symbol>       — remove one symbol
//	  - sync                   — push pending changes now
//	  - share <id> <email>     — share a watchlist
//	  - open <token>           — import a shared watchlist
//	  - news <symbol>          — fetch news for a ticker
//	  - logout                 — log out
//	  - exit | quit            — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("stocksentry %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, create, del, add, rm, sync, share, open, news, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "create":
			if len(args) == 0 {
				printlnFn("Usage: create <name> [symbols...]")
				continue
			}
			_ = a.Create(ctx, args[0], args[1:])

		case "del":
			if len(args) != 1 {
				printlnFn("Usage: del <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "add":
			if len(args) < 2 {
				printlnFn("Usage: add <id> <symbols...>")
				continue
			}
			_ = a.AddSymbols(ctx, args[0], args[1:])

		case "rm":
			if len(args) != 2 {
				printlnFn("Usage: rm <id> <symbol>")
				continue
			}
			_ = a.RemoveSymbol(ctx, args[0], args[1])

		case "sync":
			_ = a.Sync(ctx)

		case "share":
			if len(args) != 2 {
				printlnFn("Usage: share <id> <email>")
				continue
			}
			_ = a.Share(ctx, args[0], args[1])

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <token>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "news":
			if len(args) != 1 {
				printlnFn("Usage: news <symbol>")
				continue
			}
			_ = a.News(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
