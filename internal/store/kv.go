// Package store provides the key-value persistence collaborator. Cached demo
// data, user transaction edits, and session tokens are stored as opaque JSON
// blobs keyed by string names.
package store

import "context"

// Well-known keys used across the application.
const (
	KeyBankData    = "bankData"
	KeyUserEdits   = "user_transaction_edits"
	KeyDemoChart   = "demo_chart_data"
	KeyAccessToken = "plaid_access_token"
)

// KV is the contract for the persistence layer. Values are opaque byte
// blobs; callers own serialization.
type KV interface {
	// Get returns the value for key, or common.ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
