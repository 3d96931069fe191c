// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [NullCache]: stores nothing, for disabled caching and tests
//   - [FileCache]: one file per entry under a local directory
//   - [RedisCache]: a shared Redis server, for multi-instance services
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] picks a backend from [Options]. Every backend is wrapped with
// [Instrument] so cache hits and misses reach the observability hooks.
//
// # Keys
//
// A [Keyer] derives keys from content: layout keys from the topology hash
// and the options that affect positions, artifact keys from the layout key
// and the output format. Equal inputs always produce equal keys.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend connections.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
