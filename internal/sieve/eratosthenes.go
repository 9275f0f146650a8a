package sieve

import (
	"math"

	"github.com/hupe1980/primego/internal/bitset"
)

// ClassicBasePrimes returns every prime in [2, limit] using a plain
// (non-segmented) Sieve of Eratosthenes. Limits below 2 yield no primes.
func ClassicBasePrimes(limit int) []uint32 {
	if limit < 2 {
		return []uint32{}
	}

	candidates := bitset.New(0, limit, true)
	for p := 2; p*p <= limit; p++ {
		if !candidates.Test(p) {
			continue
		}
		candidates.ClearEvery(p*p, p)
	}

	return candidates.AppendMarked(make([]uint32, 0, estimateCount(limit)), 2)
}

// EratosthenesSegment returns the primes in [start, end] by crossing off
// multiples of the given base primes. base must contain every prime up to
// floor(sqrt(end)) in ascending order.
func EratosthenesSegment(start, end int, base []uint32) []uint32 {
	if start < 2 {
		start = 2
	}
	if start > end {
		return []uint32{}
	}

	candidates := bitset.New(start, end, true)
	for _, bp := range base {
		p := int(bp)
		square := p * p
		if square > end {
			break
		}
		candidates.ClearEvery(max(square, firstMultipleAtLeast(start, p)), p)
	}

	return candidates.AppendMarked(make([]uint32, 0, max(0, estimateCount(end)-estimateCount(start-1))), start)
}

// estimateCount approximates pi(n) for slice preallocation.
func estimateCount(n int) int {
	if n < 17 {
		return 8
	}
	// n/ln(n) underestimates pi(n) by a few percent; pad it.
	return int(float64(n)/math.Log(float64(n))*1.15) + 8
}
