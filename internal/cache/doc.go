// Package cache provides the in-process LRU cache for generation results.
//
// Entries are immutable byte blobs (packed prime lists) keyed by the
// algorithm, upper limit and thread count that produced them. Generation is a
// pure function of that key, so a hit can be served without re-running the
// algorithm.
//
// The ShardedLRUCache spreads entries over 64 independently locked LRU
// shards. Capacity is accounted in bytes and, when a resource.Controller is
// supplied, charged against its memory limit.
package cache
