package sieve

import "math"

// Isqrt returns floor(sqrt(n)) for n >= 0 and 0 for negative n.
func Isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	// Correct float rounding in either direction.
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// ceilSqrt returns the smallest r >= 0 with r*r >= n.
func ceilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := Isqrt(n)
	if r*r < n {
		r++
	}
	return r
}

// firstMultipleAtLeast returns the smallest multiple of step that is >= v.
func firstMultipleAtLeast(v, step int) int {
	if v <= 0 {
		return 0
	}
	return ((v + step - 1) / step) * step
}
