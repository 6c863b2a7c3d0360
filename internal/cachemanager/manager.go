// Package cachemanager provides a small generic cache abstraction over an
// in-memory TTL cache, used to avoid re-marshaling unchanged exports.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the cache contract consumed by the model's exporter.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
