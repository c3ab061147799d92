// Package common defines shared sentinel errors used across the StockSentry
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// ErrNoUser is returned when an operation requires a logged-in user
	// and the local store has none.
	ErrNoUser = errors.New("no active user")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
)
