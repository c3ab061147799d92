// Package models defines client-side data models used by the StockSentry CLI.
package models

import "slices"

// SyncState describes how a locally persisted watchlist relates to the
// remote service. Exactly one state applies to a record at a time.
type SyncState string

const (
	// SyncStateSynced means the last known local state matches remote.
	SyncStateSynced SyncState = "synced"

	// SyncStatePendingUpsert means a local create or edit has not been
	// confirmed remotely yet.
	SyncStatePendingUpsert SyncState = "pending_upsert"

	// SyncStatePendingDelete marks a tombstone: the record is deleted
	// locally but the remote delete has not been confirmed. The row is
	// retained in storage until it is.
	SyncStatePendingDelete SyncState = "pending_delete"
)

// Watchlist is a named set of ticker symbols owned by a user.
type Watchlist struct {
	// ID is a client-generated unique identifier, stable across sync.
	ID string

	// UserID is the owning user's remote-issued identifier
	// (User.UserID, not User.Email).
	UserID string

	// Name is the user-visible watchlist name.
	Name string

	// Symbols is the set of ticker symbols. Order is irrelevant;
	// uniqueness is expected but not enforced.
	Symbols []string

	// SyncState tracks reconciliation against the remote service.
	SyncState SyncState
}

// Pending reports whether the record still awaits remote confirmation.
func (w *Watchlist) Pending() bool {
	return w.SyncState != SyncStateSynced
}

// Tombstoned reports whether the record is an unconfirmed deletion.
func (w *Watchlist) Tombstoned() bool {
	return w.SyncState == SyncStatePendingDelete
}

// WithSymbolsAdded returns a copy of w with the given symbols appended.
func (w *Watchlist) WithSymbolsAdded(symbols []string) *Watchlist {
	out := w.clone()
	out.Symbols = append(out.Symbols, symbols...)
	return out
}

// WithSymbolRemoved returns a copy of w with every occurrence of symbol
// removed.
func (w *Watchlist) WithSymbolRemoved(symbol string) *Watchlist {
	out := w.clone()
	out.Symbols = slices.DeleteFunc(slices.Clone(w.Symbols), func(s string) bool {
		return s == symbol
	})
	return out
}

func (w *Watchlist) clone() *Watchlist {
	c := *w
	c.Symbols = slices.Clone(w.Symbols)
	return &c
}
