package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/primego/internal/resource"
)

// LRUCache implements a simple LRU ResultCache.
type LRUCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[CacheKey]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

var _ ResultCache = (*LRUCache)(nil)

type entry struct {
	key   CacheKey
	value []byte
}

// NewLRUCache creates a new LRU cache with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRUCache(capacity int64, rc *resource.Controller) *LRUCache {
	return &LRUCache{
		capacity:  capacity,
		items:     make(map[CacheKey]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns a cached blob.
func (c *LRUCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a blob.
func (c *LRUCache) Set(_ context.Context, key CacheKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Replace in place
	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		oldSize := int64(len(ent.Value.(*entry).value))
		newSize := int64(len(b))
		if newSize > c.capacity {
			return
		}
		if c.rc != nil && newSize > oldSize {
			// Keep the old value if the controller denies the growth.
			if !c.rc.TryAcquireMemory(newSize - oldSize) {
				return
			}
		}

		c.size += newSize - oldSize
		if c.rc != nil && newSize < oldSize {
			c.rc.ReleaseMemory(oldSize - newSize)
		}

		ent.Value.(*entry).value = b
		c.evict()
		return
	}

	itemSize := int64(len(b))

	// Items larger than the whole cache are never admitted.
	if itemSize > c.capacity {
		return
	}

	// Evict locally first so released bytes can be reacquired below.
	for c.size+itemSize > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	// Non-blocking: if the controller says no, don't cache.
	if c.rc != nil && !c.rc.TryAcquireMemory(itemSize) {
		return
	}

	element := c.evictList.PushFront(&entry{key, b})
	c.items[key] = element
	c.size += itemSize
}

// Invalidate removes entries matching the predicate.
func (c *LRUCache) Invalidate(predicate func(key CacheKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Collect first; removeElement mutates the list.
	var toRemove []*list.Element

	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}

	for _, e := range toRemove {
		c.removeElement(e)
	}
}

func (c *LRUCache) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			break
		}
		c.removeElement(element)
	}
}

// Close drops every entry and returns its memory to the controller.
func (c *LRUCache) Close() error {
	c.Invalidate(func(CacheKey) bool { return true })
	return nil
}

func (c *LRUCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRUCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
	itemSize := int64(len(kv.value))
	c.size -= itemSize
	if c.rc != nil {
		c.rc.ReleaseMemory(itemSize)
	}
}

// Size returns the current size of the cache in bytes.
func (c *LRUCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
