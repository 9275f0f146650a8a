package algorithm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/primego/internal/partition"
)

var (
	// ErrUnsupportedAlgorithm is returned when a name does not resolve to a
	// registered algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrChunkPanic marks a ChunkFailure caused by a recovered panic.
	ErrChunkPanic = errors.New("chunk worker panicked")

	// ErrLimitOutOfRange is returned for upper limits above MaxUpperLimit.
	ErrLimitOutOfRange = errors.New("upper limit out of range")
)

// MaxUpperLimit is the largest upper limit any algorithm accepts. Primes are
// reported as uint32 and the Miller-Rabin witness set is exact below it.
const MaxUpperLimit = math.MaxUint32

func checkLimit(upperLimit int) error {
	if int64(upperLimit) > MaxUpperLimit {
		return fmt.Errorf("%w: %d > %d", ErrLimitOutOfRange, upperLimit, uint64(MaxUpperLimit))
	}
	return nil
}

// Name identifies an algorithm.
type Name string

const (
	NameTrial  Name = "trial"
	NameSieve  Name = "sieve"
	NameAtkin  Name = "atkin"
	NameMiller Name = "miller"
)

// normalizeName folds s to the registry key form.
func normalizeName(s string) Name {
	return Name(strings.ToLower(strings.TrimSpace(s)))
}

func (n Name) String() string { return string(n) }

// Algorithm is a prime generator.
type Algorithm interface {
	// Name returns the registry name.
	Name() Name

	// Generate returns every prime in [2, upperLimit].
	// It returns ctx.Err() if ctx is done before all chunks have started and
	// ErrLimitOutOfRange if upperLimit exceeds MaxUpperLimit.
	Generate(ctx context.Context, upperLimit, threads int) (Result, error)
}

// ChunkFailure describes a chunk whose worker did not complete.
type ChunkFailure struct {
	// Index is the chunk position within the partition.
	Index int
	// Range is the chunk's candidate interval.
	Range partition.Range
	// Worker names the pool worker that ran the chunk.
	Worker string
	// Err describes the failure. It wraps ErrChunkPanic for recovered panics.
	Err error
}

func (f ChunkFailure) Error() string {
	if f.Worker == "" {
		return fmt.Sprintf("chunk %d %s: %v", f.Index, f.Range, f.Err)
	}
	return fmt.Sprintf("chunk %d %s on %s: %v", f.Index, f.Range, f.Worker, f.Err)
}

func (f ChunkFailure) Unwrap() error { return f.Err }

// Result is the outcome of one Generate call.
type Result struct {
	// Primes is ascending and duplicate-free. Never nil.
	Primes []uint32
	// Chunks is the number of chunks the candidate range was split into.
	Chunks int
	// Failures lists chunks whose contribution is missing from Primes.
	Failures []ChunkFailure
}

// Complete reports whether every chunk contributed to Primes.
func (r Result) Complete() bool { return len(r.Failures) == 0 }

// Largest returns the largest prime, or 0 if there is none.
func (r Result) Largest() uint32 {
	if len(r.Primes) == 0 {
		return 0
	}
	return r.Primes[len(r.Primes)-1]
}

func emptyResult() Result {
	return Result{Primes: []uint32{}}
}
