package kv

import "context"

// Store is a flat key/value document store. Values are raw JSON documents.
// Get returns domain.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
