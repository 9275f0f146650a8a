package algorithm

import (
	"context"

	"github.com/hupe1980/primego/internal/partition"
	"github.com/hupe1980/primego/internal/sieve"
)

// Sieve is the segmented Sieve of Eratosthenes.
//
// Base primes up to floor(sqrt(upperLimit)) come from a classic sieve. The
// remaining span [floor(sqrt(upperLimit))+1, upperLimit] is split into chunks
// and each chunk crosses off multiples of the shared base primes.
type Sieve struct{}

var _ Algorithm = Sieve{}

// Name implements Algorithm.
func (Sieve) Name() Name { return NameSieve }

// BasePrimes returns the primes in [2, limit] from the classic sieve.
func (Sieve) BasePrimes(limit int) []uint32 {
	return sieve.ClassicBasePrimes(limit)
}

// Generate implements Algorithm.
func (s Sieve) Generate(ctx context.Context, upperLimit, threads int) (Result, error) {
	if err := checkLimit(upperLimit); err != nil {
		return Result{}, err
	}
	if upperLimit < 2 {
		return emptyResult(), nil
	}

	sqrtLimit := sieve.Isqrt(upperLimit)
	base := s.BasePrimes(sqrtLimit)

	return job{
		label:   "sieve",
		seed:    base,
		span:    partition.Range{Lower: sqrtLimit + 1, Upper: upperLimit},
		threads: threads,
		segment: func(start, end int) []uint32 {
			return sieve.EratosthenesSegment(start, end, base)
		},
	}.run(ctx)
}
