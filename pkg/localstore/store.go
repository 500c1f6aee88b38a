// Package localstore is the client's durable key-value storage, the
// counterpart of a browser's local storage. Values are plain strings,
// callers decide on their encoding.
package localstore

import "context"

// Store persists string values by key.
type Store interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem creates or replaces the value stored under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
