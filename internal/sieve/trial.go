package sieve

// IsPrimeTrial reports whether n is prime by trial division with every
// integer in [2, floor(sqrt(n))].
func IsPrimeTrial(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// TrialSegment returns the primes in [start, end] tested one by one with
// IsPrimeTrial.
func TrialSegment(start, end int) []uint32 {
	return filterRange(start, end, IsPrimeTrial)
}

func filterRange(start, end int, isPrime func(int) bool) []uint32 {
	if start < 2 {
		start = 2
	}
	if start > end {
		return []uint32{}
	}

	primes := make([]uint32, 0, max(0, estimateCount(end)-estimateCount(start-1)))
	for n := start; n <= end; n++ {
		if isPrime(n) {
			primes = append(primes, uint32(n))
		}
	}
	return primes
}
