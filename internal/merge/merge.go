// Package merge combines per-chunk prime lists into one ascending,
// duplicate-free sequence.
//
// Chunks complete in scheduling order, so the merged output must never depend
// on the order in which lists are handed in. A roaring bitmap gives both the
// deduplication and the ordering in one pass.
package merge

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Collector accumulates chunk results as they arrive. It is not safe for
// concurrent use; callers deliver results from a single goroutine.
type Collector struct {
	bm *roaring.Bitmap
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{bm: roaring.New()}
}

// Add records one chunk result.
func (c *Collector) Add(primes []uint32) {
	if len(primes) > 0 {
		c.bm.AddMany(primes)
	}
}

// Sorted returns the collected values in ascending order.
func (c *Collector) Sorted() []uint32 {
	if c.bm.IsEmpty() {
		return []uint32{}
	}
	return c.bm.ToArray()
}
