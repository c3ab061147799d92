// Package cli provides the interactive StockSentry command-line client.
//
// It wires configuration, local storage, API services, the connectivity
// monitor and the background sync scheduler into an interactive REPL.
// Typical flow: restore or prompt for a session, start the connectivity
// watcher, and execute user commands. Watchlist mutations apply locally
// first; the sync scheduler pushes pending changes whenever the backend
// is reachable.
//
// Key features:
//   - Register / Login / Logout (registration works offline)
//   - Create, delete and edit watchlists
//   - List watchlists with their sync state
//   - Share a watchlist and import a shared one
//   - Fetch news per ticker symbol
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
