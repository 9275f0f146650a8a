package algorithm

import (
	"context"

	"github.com/hupe1980/primego/internal/partition"
	"github.com/hupe1980/primego/internal/sieve"
)

// MillerRabin filters [2, upperLimit] with the Miller-Rabin test using the
// witnesses 2, 3, 5, 7 and 11. The answer is exact for every input the
// service accepts.
type MillerRabin struct{}

var _ Algorithm = MillerRabin{}

// Name implements Algorithm.
func (MillerRabin) Name() Name { return NameMiller }

// Generate implements Algorithm.
func (MillerRabin) Generate(ctx context.Context, upperLimit, threads int) (Result, error) {
	if err := checkLimit(upperLimit); err != nil {
		return Result{}, err
	}
	if upperLimit < 2 {
		return emptyResult(), nil
	}

	return job{
		label:   "miller-rabin",
		span:    partition.Range{Lower: 2, Upper: upperLimit},
		threads: threads,
		segment: sieve.MillerRabinSegment,
	}.run(ctx)
}
