package cache

import (
	"context"
	"encoding/binary"
	"hash/maphash"
	"sync"

	"github.com/hupe1980/primego/internal/resource"
)

const numShards = 64

// ShardedLRUCache is a sharded LRU cache for high-concurrency workloads.
// It distributes entries across 64 shards to reduce lock contention.
type ShardedLRUCache struct {
	shards [numShards]*LRUCache
	seed   maphash.Seed
}

var _ ResultCache = (*ShardedLRUCache)(nil)

// NewShardedLRUCache creates a new sharded LRU cache.
// The capacity is divided evenly across all shards.
func NewShardedLRUCache(capacity int64, rc *resource.Controller) *ShardedLRUCache {
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	s := &ShardedLRUCache{
		seed: maphash.MakeSeed(),
	}

	for i := range numShards {
		s.shards[i] = NewLRUCache(shardCapacity, rc)
	}

	return s
}

// shard returns the shard for a given key.
func (s *ShardedLRUCache) shard(key CacheKey) *LRUCache {
	var h maphash.Hash
	h.SetSeed(s.seed)

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(key.Limit))
	binary.LittleEndian.PutUint64(buf[8:], uint64(key.Threads))

	_, _ = h.WriteString(key.Algorithm)
	_, _ = h.Write(buf[:])

	return s.shards[h.Sum64()%numShards]
}

// Get returns a cached blob.
func (s *ShardedLRUCache) Get(ctx context.Context, key CacheKey) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set caches a blob.
func (s *ShardedLRUCache) Set(ctx context.Context, key CacheKey, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Invalidate removes entries matching the predicate.
// This iterates all shards, which is expensive but rare.
func (s *ShardedLRUCache) Invalidate(predicate func(key CacheKey) bool) {
	var wg sync.WaitGroup
	wg.Add(numShards)

	for i := range numShards {
		go func(shard *LRUCache) {
			defer wg.Done()
			shard.Invalidate(predicate)
		}(s.shards[i])
	}

	wg.Wait()
}

// Close closes all shards.
func (s *ShardedLRUCache) Close() error {
	for i := range numShards {
		if err := s.shards[i].Close(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRUCache) Stats() (hits, misses int64) {
	for i := range numShards {
		h, m := s.shards[i].Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size across all shards.
func (s *ShardedLRUCache) Size() int64 {
	var total int64
	for i := range numShards {
		total += s.shards[i].Size()
	}
	return total
}

// Len returns the total number of entries across all shards.
func (s *ShardedLRUCache) Len() int {
	var total int
	for i := range numShards {
		total += s.shards[i].Len()
	}
	return total
}

// ShardStats describes one shard.
type ShardStats struct {
	ShardID int
	Size    int64
	Entries int
	Hits    int64
	Misses  int64
}

// ShardStats returns per-shard statistics.
func (s *ShardedLRUCache) ShardStats() []ShardStats {
	stats := make([]ShardStats, numShards)
	for i := range numShards {
		h, m := s.shards[i].Stats()
		stats[i] = ShardStats{
			ShardID: i,
			Size:    s.shards[i].Size(),
			Entries: s.shards[i].Len(),
			Hits:    h,
			Misses:  m,
		}
	}
	return stats
}
