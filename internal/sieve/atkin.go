package sieve

import (
	"github.com/hupe1980/primego/internal/bitset"
)

// AtkinBasePrimes returns the primes in [start, limit] using a non-segmented
// Sieve of Atkin over [0, limit]. Only the final collection honours start;
// base-prime generation for segmented sieving always passes start = 2.
func AtkinBasePrimes(start, limit int) []uint32 {
	if limit < 2 || start > limit {
		return []uint32{}
	}

	candidates := bitset.New(0, limit, false)
	flipQuadraticForms(candidates)

	sqrtLimit := Isqrt(limit)
	for p := 5; p <= sqrtLimit; p++ {
		if candidates.Test(p) {
			candidates.ClearEvery(p*p, p*p)
		}
	}

	primes := make([]uint32, 0, estimateCount(limit))
	if start <= 2 {
		primes = append(primes, 2)
	}
	if start <= 3 && limit >= 3 {
		primes = append(primes, 3)
	}

	return candidates.AppendMarked(primes, max(5, start))
}

// AtkinSegment returns the primes in [start, end] using the Atkin quadratic
// forms restricted to the segment, then removing multiples of squares of the
// base primes. base must contain every prime up to floor(sqrt(end)).
func AtkinSegment(start, end int, base []uint32) []uint32 {
	if start < 2 {
		start = 2
	}
	if start > end {
		return []uint32{}
	}

	candidates := bitset.New(start, end, false)
	flipQuadraticForms(candidates)

	for _, bp := range base {
		square := int(bp) * int(bp)
		if square > end {
			break
		}
		candidates.ClearEvery(firstMultipleAtLeast(start, square), square)
	}

	primes := make([]uint32, 0, max(0, estimateCount(end)-estimateCount(start-1)))
	// The quadratic forms never produce 2 or 3.
	for _, small := range []int{2, 3} {
		if candidates.Contains(small) {
			primes = append(primes, uint32(small))
		}
	}

	return candidates.AppendMarked(primes, max(start, 5))
}

// flipQuadraticForms toggles every candidate n in the segment once per
// representation:
//
//	n = 4x² + y²  with n mod 12 in {1, 5}
//	n = 3x² + y²  with n mod 12 == 7
//	n = 3x² - y²  with x > y and n mod 12 == 11
//
// For each x only the y values that land inside [lower, upper] are visited.
func flipQuadraticForms(s *bitset.Segment) {
	lower, upper := s.Lower(), s.Upper()
	if upper < 1 {
		return
	}

	maxXY := Isqrt(upper)
	for x := 1; x <= maxXY; x++ {
		xx := x * x

		// 4x² + y²
		if rest := upper - 4*xx; rest >= 1 {
			yLo := max(1, ceilSqrt(lower-4*xx))
			yHi := min(maxXY, Isqrt(rest))
			for y := yLo; y <= yHi; y++ {
				n := 4*xx + y*y
				if m := n % 12; m == 1 || m == 5 {
					s.Flip(n)
				}
			}
		}

		// 3x² + y²
		if rest := upper - 3*xx; rest >= 1 {
			yLo := max(1, ceilSqrt(lower-3*xx))
			yHi := min(maxXY, Isqrt(rest))
			for y := yLo; y <= yHi; y++ {
				n := 3*xx + y*y
				if n%12 == 7 {
					s.Flip(n)
				}
			}
		}

		// 3x² - y², y < x
		yLo := max(1, ceilSqrt(3*xx-upper))
		yHi := min(x-1, Isqrt(3*xx-lower))
		for y := yLo; y <= yHi; y++ {
			n := 3*xx - y*y
			if n%12 == 11 {
				s.Flip(n)
			}
		}
	}
}
