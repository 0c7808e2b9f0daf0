package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable wraps every failure to reach the backing store
	ErrUnavailable = errors.New("store unavailable")
)

// Store is a persistent mapping from string keys to JSON-serializable values.
// Put overwrites existing keys. ListKeys returns every key, in no particular order.
type Store interface {
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dst any) error
	ListKeys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
