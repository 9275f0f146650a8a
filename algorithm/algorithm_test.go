package algorithm

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/hupe1980/primego/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAlgorithms() []Algorithm {
	return []Algorithm{Trial{}, Sieve{}, Atkin{}, MillerRabin{}}
}

func generate(t *testing.T, a Algorithm, limit, threads int) []uint32 {
	t.Helper()

	res, err := a.Generate(context.Background(), limit, threads)
	require.NoError(t, err)
	require.True(t, res.Complete(), "failures: %v", res.Failures)
	require.NotNil(t, res.Primes)

	return res.Primes
}

func TestGenerate_Boundary100(t *testing.T) {
	for _, a := range allAlgorithms() {
		t.Run(a.Name().String(), func(t *testing.T) {
			primes := generate(t, a, 100, 1)
			for _, p := range []uint32{2, 3, 5, 7, 97} {
				assert.Contains(t, primes, p)
			}
			assert.NotContains(t, primes, uint32(100))
			assert.Len(t, primes, 25)
		})
	}
}

func TestGenerate_EmptyBelowTwo(t *testing.T) {
	for _, a := range allAlgorithms() {
		for _, limit := range []int{-5, 0, 1} {
			for _, threads := range []int{0, 1, 4} {
				res, err := a.Generate(context.Background(), limit, threads)
				require.NoError(t, err)
				assert.Empty(t, res.Primes, "%s limit=%d threads=%d", a.Name(), limit, threads)
				assert.NotNil(t, res.Primes)
			}
		}
	}
}

func TestGenerate_SmallLimits(t *testing.T) {
	want := map[int][]uint32{
		2:  {2},
		3:  {2, 3},
		4:  {2, 3},
		5:  {2, 3, 5},
		10: {2, 3, 5, 7},
		30: {2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
	}

	for _, a := range allAlgorithms() {
		for limit, w := range want {
			for _, threads := range []int{1, 2, 3} {
				assert.Equal(t, w, generate(t, a, limit, threads), "%s limit=%d threads=%d", a.Name(), limit, threads)
			}
		}
	}
}

func TestGenerate_CrossAlgorithmAgreement(t *testing.T) {
	for limit := 0; limit <= 1000; limit++ {
		want := testutil.ReferencePrimes(limit)
		for _, a := range allAlgorithms() {
			assert.Equal(t, want, generate(t, a, limit, 1), "%s limit=%d", a.Name(), limit)
		}
	}
}

func TestGenerate_DeterministicAcrossThreads(t *testing.T) {
	rng := testutil.NewRNG(42)

	for _, a := range allAlgorithms() {
		t.Run(a.Name().String(), func(t *testing.T) {
			for i := 0; i < 20; i++ {
				limit := rng.Limit(2, 50_000)
				single := generate(t, a, limit, 1)
				threads := rng.Threads(16)
				multi := generate(t, a, limit, threads)

				require.Equal(t, single, multi, "limit=%d threads=%d", limit, threads)
				assert.True(t, testutil.IsStrictlyIncreasing(multi))
				assert.Equal(t, testutil.SortedDistinct(multi), multi)
			}
		})
	}
}

func TestGenerate_ThreadsExceedSpan(t *testing.T) {
	// More chunks than candidates leaves trailing chunks empty.
	for _, a := range allAlgorithms() {
		res, err := a.Generate(context.Background(), 10, 32)
		require.NoError(t, err)
		assert.Equal(t, []uint32{2, 3, 5, 7}, res.Primes, a.Name())
		assert.Equal(t, 32, res.Chunks)
	}
}

func TestSieve_OneMillionFourThreads(t *testing.T) {
	primes := generate(t, Sieve{}, 1_000_000, 4)

	assert.Len(t, primes, 78498)
	assert.Equal(t, uint32(999983), primes[len(primes)-1])
}

func TestAtkin_OneMillionMatchesSieve(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	want := generate(t, Sieve{}, 1_000_000, 1)
	for _, threads := range []int{1, 3, 8} {
		assert.Equal(t, want, generate(t, Atkin{}, 1_000_000, threads), "threads=%d", threads)
	}
}

func TestBasePrimes(t *testing.T) {
	assert.Equal(t, []uint32{2, 3, 5, 7}, Sieve{}.BasePrimes(10))
	assert.Empty(t, Sieve{}.BasePrimes(1))

	assert.Equal(t, []uint32{2, 3, 5, 7}, Atkin{}.BasePrimes(2, 10))
	assert.Equal(t, []uint32{11, 13, 17, 19}, Atkin{}.BasePrimes(10, 20))
	assert.Empty(t, Atkin{}.BasePrimes(2, 0))
}

func TestResult_Largest(t *testing.T) {
	assert.Equal(t, uint32(0), Result{}.Largest())
	assert.Equal(t, uint32(29), Result{Primes: []uint32{2, 29}}.Largest())
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, a := range allAlgorithms() {
		for _, threads := range []int{1, 4} {
			_, err := a.Generate(ctx, 1000, threads)
			assert.ErrorIs(t, err, context.Canceled, fmt.Sprintf("%s threads=%d", a.Name(), threads))
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []Name{NameAtkin, NameMiller, NameSieve, NameTrial}, r.Names())

	for _, s := range []string{"sieve", "SIEVE", " Sieve "} {
		a, err := r.Lookup(s)
		require.NoError(t, err)
		assert.Equal(t, NameSieve, a.Name())
	}

	_, err := r.Lookup("bogus")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.ErrorContains(t, err, `"bogus"`)
}

type renamed struct {
	Sieve
	name Name
}

func (r renamed) Name() Name { return r.name }

func TestRegistry_RegisterFoldsCase(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	r.Register(renamed{name: " Fast-Sieve"})

	a, err := r.Lookup("fast-sieve")
	require.NoError(t, err)
	assert.Equal(t, Name(" Fast-Sieve"), a.Name())
	assert.Equal(t, []Name{"fast-sieve"}, r.Names())
}

func TestGenerate_LimitOutOfRange(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("limits above 2^32-1 are not representable")
	}

	limit := int64(MaxUpperLimit) + 21

	for _, a := range allAlgorithms() {
		for _, threads := range []int{1, 4} {
			_, err := a.Generate(context.Background(), int(limit), threads)
			assert.ErrorIs(t, err, ErrLimitOutOfRange, "%s threads=%d", a.Name(), threads)
		}
	}
}
