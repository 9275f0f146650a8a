package sieve

// millerRabinWitnesses gives exact answers for every n below
// 2,152,302,898,747, which covers all 32-bit inputs.
var millerRabinWitnesses = [...]uint64{2, 3, 5, 7, 11}

// IsPrimeMillerRabin runs a deterministic Miller-Rabin test. It is exact for
// every n that fits in a uint32.
func IsPrimeMillerRabin(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 || n == 3 {
		return true
	}
	if n%2 == 0 {
		return false
	}

	m := uint64(n)
	d := m - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}

	for _, a := range millerRabinWitnesses {
		if a >= m {
			continue
		}
		if !witnessPasses(a, d, r, m) {
			return false
		}
	}
	return true
}

// MillerRabinSegment returns the primes in [start, end] tested one by one
// with IsPrimeMillerRabin.
func MillerRabinSegment(start, end int) []uint32 {
	return filterRange(start, end, IsPrimeMillerRabin)
}

func witnessPasses(a, d uint64, r int, n uint64) bool {
	x := ModPow(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for i := 0; i < r-1; i++ {
		x = x * x % n
		if x == n-1 {
			return true
		}
	}
	return false
}

// ModPow computes base^exp mod m by repeated squaring. Intermediate products
// fit in 64 bits as long as m < 2^32.
func ModPow(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	b := base % m
	for exp > 0 {
		if exp&1 == 1 {
			result = result * b % m
		}
		b = b * b % m
		exp >>= 1
	}
	return result
}
