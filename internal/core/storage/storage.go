// Package storage defines the durable key/value contract used to persist the
// session and the local wishlist across restarts.
package storage

import "context"

// Storage is a durable string key/value store. Writes of multiple keys are not
// transactional; callers must tolerate a crash between keys.
type Storage interface {
	// Get returns the values for the given keys. Missing keys are absent from
	// the result.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	// Set creates or updates every key in values.
	Set(ctx context.Context, values map[string]string) error
	// Remove deletes the given keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}
