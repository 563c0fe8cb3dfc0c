// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
)

// Common application errors.
var (
	// Storage errors.
	ErrKeyNotFound = errors.New("key not found")

	// Ingestion errors.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// Edit errors.
	ErrInvalidEditInput = errors.New("invalid edit input")

	// Aggregator errors.
	ErrAggregatorConnection = errors.New("aggregator connection failed")
	ErrAggregatorRateLimit  = errors.New("aggregator rate limit exceeded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsRetryable reports whether an error should trigger another attempt.
// Context cancellation and expiry are terminal; a RetryableError carries its
// own verdict; anything else is assumed transient.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return true
}
