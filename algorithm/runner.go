package algorithm

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/primego/internal/merge"
	"github.com/hupe1980/primego/internal/partition"
	"github.com/hupe1980/primego/internal/pool"
)

// segmentFunc returns the primes in the inclusive range [start, end].
type segmentFunc func(start, end int) []uint32

// job is one Generate call: seed primes that are already known plus a
// candidate span that is split across threads workers.
type job struct {
	label   string
	seed    []uint32
	span    partition.Range
	threads int
	segment segmentFunc
}

type chunkOutcome struct {
	index   int
	rng     partition.Range
	worker  string
	primes  []uint32
	err     error
	skipped bool
}

// run executes the job and merges seed and chunk results.
func (j job) run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	threads := max(1, j.threads)
	collector := merge.NewCollector()
	collector.Add(j.seed)

	if j.span.Empty() {
		return Result{Primes: collector.Sorted()}, nil
	}

	var outcomes []chunkOutcome
	if threads == 1 {
		outcomes = []chunkOutcome{runChunk(0, j.span, pool.WorkerName(j.label, 0), j.segment)}
	} else {
		var err error
		if outcomes, err = j.dispatch(ctx, threads); err != nil {
			return Result{}, err
		}
	}

	// A call cancelled while chunks were running is not reported as partial.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Chunks: len(outcomes)}
	for _, out := range outcomes {
		if out.err != nil {
			res.Failures = append(res.Failures, ChunkFailure{
				Index:  out.index,
				Range:  out.rng,
				Worker: out.worker,
				Err:    out.err,
			})
			continue
		}
		collector.Add(out.primes)
	}
	slices.SortFunc(res.Failures, func(a, b ChunkFailure) int { return a.Index - b.Index })
	res.Primes = collector.Sorted()

	return res, nil
}

// dispatch runs every chunk on a pool of threads workers and waits for all of
// them. Chunks that have not started when ctx is done are skipped.
func (j job) dispatch(ctx context.Context, threads int) ([]chunkOutcome, error) {
	chunks := partition.Split(j.span.Lower, j.span.Upper, threads)

	wp := pool.NewWorkerPool(j.label, threads)
	defer wp.Close()

	results := make(chan chunkOutcome, len(chunks))

	submitted := 0
	var submitErr error
	for i, rng := range chunks {
		err := wp.Submit(ctx, func(worker string) {
			if ctx.Err() != nil {
				results <- chunkOutcome{index: i, rng: rng, worker: worker, skipped: true}
				return
			}
			results <- runChunk(i, rng, worker, j.segment)
		})
		if err != nil {
			submitErr = err
			break
		}
		submitted++
	}

	// Join barrier.
	outcomes := make([]chunkOutcome, 0, submitted)
	for n := 0; n < submitted; n++ {
		out := <-results
		if out.skipped {
			continue
		}
		outcomes = append(outcomes, out)
	}

	if submitErr != nil {
		return nil, submitErr
	}

	return outcomes, nil
}

// runChunk sieves one chunk and converts a panic into a failed outcome.
// Empty chunks yield no primes without calling fn.
func runChunk(index int, rng partition.Range, worker string, fn segmentFunc) (out chunkOutcome) {
	out = chunkOutcome{index: index, rng: rng, worker: worker}
	if rng.Empty() {
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			out.primes = nil
			out.err = fmt.Errorf("%w: %v", ErrChunkPanic, r)
		}
	}()

	out.primes = fn(rng.Lower, rng.Upper)

	return out
}
