package client

import "errors"

var (
	// ErrUnavailable covers transport failures, timeouts and 5xx responses.
	// Always retryable.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized covers 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRejected covers other non-2xx application errors. Currently retried
	// the same way as ErrUnavailable.
	ErrRejected = errors.New("request rejected")
)
