// Package cache stores downloaded map data between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/hubmap (CLI default)
//   - [RedisCache]: shared cache for several `hubmap serve` instances
//   - [NullCache]: disables caching (--no-cache)
//
// All backends implement [Cache]. Keys come from a [Keyer] so that several
// deployments can share one Redis database without collisions:
//
//	keys := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
//	data, ok, err := c.Get(ctx, keys.TileKey(url))
//
// [Instrument] wraps any backend so hits, misses and writes are reported to
// the registered observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/hubmap/pkg/observability"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Instrument reports cache traffic for keyType through observability hooks.
func Instrument(c Cache, keyType string) Cache {
	return &instrumented{Cache: c, keyType: keyType}
}

type instrumented struct {
	Cache
	keyType string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
