// Package cache provides content-addressed byte caches for boundaries,
// scenes and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as files below a directory (CLI default)
//   - [RedisCache] shares entries between server instances
//   - [MemoryCache] keeps entries in process
//
// [NullCache] disables caching. Keys come from a [Keyer] so that every
// backend agrees on the key layout.
//
// Caching is an optimization only: every caller falls back to recomputing
// when a lookup misses or fails.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop entries in bulk.
type Clearer interface {
	// Clear removes the entries whose key starts with prefix and returns
	// how many were removed. Backends that hash keys ignore prefix and
	// remove everything they own.
	Clear(ctx context.Context, prefix string) (int, error)
}

// Default time-to-live per entry type.
const (
	TTLBoundary = 30 * 24 * time.Hour
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
