package cache

import (
	"context"
	"fmt"
)

// CacheKey identifies one generation result.
type CacheKey struct {
	Algorithm string
	Limit     int
	Threads   int
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%d", k.Algorithm, k.Limit, k.Threads)
}

// ResultCache is a byte-oriented cache for immutable result blobs.
// Returned slices must be treated as read-only.
type ResultCache interface {
	// Get returns a cached blob. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a blob. Implementations retain b; caller must treat b as immutable.
	Set(ctx context.Context, key CacheKey, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key CacheKey) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
	// Size returns the bytes currently held.
	Size() int64
	// Len returns the number of entries.
	Len() int
}
