// Package cache stores bundling results keyed by input digest and
// configuration.
//
// Bundling is deterministic, so a table computed once for a given edge set
// and parameter set can be served again without rerunning the simulation.
// The [Cache] interface is implemented by several backends:
//
//   - [MemoryCache]: bounded in-process LRU, the server default
//   - [FileCache]: one file per entry under a directory, the CLI default
//   - [RedisCache]: shared cache for multiple server replicas
//   - [MongoCache]: shared cache with TTL-indexed documents
//   - [NullCache]: stores nothing
//
// Keys are produced by a [Keyer] so that every caller derives the same key
// for the same inputs:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.BundleKey(cache.Digest(edges), opts)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // decode the cached table
//	}
package cache

import (
	"context"
	"time"
)

// TTL defaults per entry kind.
const (
	// TTLBundle is how long a bundled table is kept. Results never go stale,
	// so this only bounds storage.
	TTLBundle = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero or less stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
