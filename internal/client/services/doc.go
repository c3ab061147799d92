// Package services contains the application services of the StockSentry
// client.
//
// The watchlist service applies each user mutation with an immediate
// best-effort remote push and always persists a local result, so a user
// action is never lost to a network failure. The sync service replays
// locally pending records against the remote API in one pass; the jobs
// scheduler runs it in the background with coalescing and backoff.
package services
