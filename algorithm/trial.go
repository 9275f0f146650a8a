package algorithm

import (
	"context"

	"github.com/hupe1980/primego/internal/partition"
	"github.com/hupe1980/primego/internal/sieve"
)

// Trial tests every candidate in [2, upperLimit] by trial division.
// Chunks are independent and need no base primes.
type Trial struct{}

var _ Algorithm = Trial{}

// Name implements Algorithm.
func (Trial) Name() Name { return NameTrial }

// Generate implements Algorithm.
func (Trial) Generate(ctx context.Context, upperLimit, threads int) (Result, error) {
	if err := checkLimit(upperLimit); err != nil {
		return Result{}, err
	}
	if upperLimit < 2 {
		return emptyResult(), nil
	}

	return job{
		label:   "trial",
		span:    partition.Range{Lower: 2, Upper: upperLimit},
		threads: threads,
		segment: sieve.TrialSegment,
	}.run(ctx)
}
