package localstore

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// Store defines the client-local persistent state operations. The
// watchlist client keeps small pieces of durable state outside the
// backend (current identity, recent identities); this is the port that
// different providers (Redis, in-memory, etc.) can implement.
type Store interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
