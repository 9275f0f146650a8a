package algorithm

import (
	"context"

	"github.com/hupe1980/primego/internal/partition"
	"github.com/hupe1980/primego/internal/sieve"
)

// Atkin is the segmented Sieve of Atkin.
//
// Base primes come from a non-segmented Atkin sieve. Each chunk applies the
// quadratic-form flips to its own span and then clears multiples of the
// squares of the base primes.
type Atkin struct{}

var _ Algorithm = Atkin{}

// Name implements Algorithm.
func (Atkin) Name() Name { return NameAtkin }

// BasePrimes returns the primes in [start, limit] from a non-segmented Atkin
// sieve over [0, limit]. Base-prime generation for Generate uses start = 2.
func (Atkin) BasePrimes(start, limit int) []uint32 {
	return sieve.AtkinBasePrimes(start, limit)
}

// Generate implements Algorithm.
func (a Atkin) Generate(ctx context.Context, upperLimit, threads int) (Result, error) {
	if err := checkLimit(upperLimit); err != nil {
		return Result{}, err
	}
	if upperLimit < 2 {
		return emptyResult(), nil
	}

	sqrtLimit := sieve.Isqrt(upperLimit)
	base := a.BasePrimes(2, sqrtLimit)

	return job{
		label:   "atkin",
		seed:    base,
		span:    partition.Range{Lower: sqrtLimit + 1, Upper: upperLimit},
		threads: threads,
		segment: func(start, end int) []uint32 {
			return sieve.AtkinSegment(start, end, base)
		},
	}.run(ctx)
}
