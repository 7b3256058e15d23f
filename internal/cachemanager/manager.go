// Package cachemanager holds the TTL caches of the host: open document
// sessions and rendered language descriptions.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a keyed cache with per-entry expiry. ReadThroughCache
// fills one; the session manager and the describer keep theirs in memory.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	// GetWithRefresh restarts the ttl of a hit, so entries in use stay.
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
}
