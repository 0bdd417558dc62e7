package tokenstore

import "context"

// Storage is a string key-value store that outlives a single request or process,
// the way browser local storage outlives a page reload.
type Storage interface {
	// Get returns the value for key, or errors.ErrNotFound when it is absent
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for key
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
