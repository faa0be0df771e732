package cache

import (
	"context"
	"time"
)

// Cache is the scrape-result cache. Re-submitting a URL inside the TTL
// reuses the cached product record instead of hitting the actor platform.
// The memory implementation serves development and single-instance
// deployments; Redis serves everything else.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries owned by this cache.
	Clear(ctx context.Context) error

	// Close releases any background resources.
	Close() error
}

// CacheError is a sentinel error type for cache conditions.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found in cache.
const ErrCacheMiss CacheError = "cache miss"

// ScrapeKey builds the cache key for a product URL.
func ScrapeKey(url string) string {
	return "scrape:" + url
}
