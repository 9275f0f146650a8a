package testutil

import (
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
	}
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Limit returns a pseudo-random upper limit in [lo, hi].
func (r *RNG) Limit(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rand.Intn(hi-lo+1)
}

// Threads returns a pseudo-random thread count in [1, maxThreads].
func (r *RNG) Threads(maxThreads int) int {
	return r.Limit(1, maxThreads)
}

// ReferencePrimes returns every prime in [2, limit] by testing odd divisors
// against the primes found so far. It shares no code with the sieves under test.
func ReferencePrimes(limit int) []uint32 {
	primes := []uint32{}
	for n := 2; n <= limit; n++ {
		isPrime := true
		for _, p := range primes {
			q := int(p)
			if q*q > n {
				break
			}
			if n%q == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, uint32(n))
		}
	}
	return primes
}

// IsStrictlyIncreasing reports whether s is sorted ascending without duplicates.
func IsStrictlyIncreasing(s []uint32) bool {
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}

// SortedDistinct returns a sorted, duplicate-free copy of s.
func SortedDistinct(s []uint32) []uint32 {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

// Diff returns the values of want missing from got and the values of got not
// present in want. Both inputs must be sorted ascending.
func Diff(want, got []uint32) (missing, extra []uint32) {
	i, j := 0, 0
	for i < len(want) && j < len(got) {
		switch {
		case want[i] == got[j]:
			i++
			j++
		case want[i] < got[j]:
			missing = append(missing, want[i])
			i++
		default:
			extra = append(extra, got[j])
			j++
		}
	}
	missing = append(missing, want[i:]...)
	extra = append(extra, got[j:]...)
	return missing, extra
}
