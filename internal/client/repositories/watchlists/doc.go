// Package watchlists persists Watchlist records in the local client store.
//
// The store is the single source of truth for what the user sees: every
// mutation lands here first, flagged with a sync state, and the background
// drain pass later reconciles pending rows against the remote service.
//
// The Repository interface is implemented by SQLiteRepository over a dbx.DBTX,
// so the same code runs against *sql.DB and inside transactions.
package watchlists
