package primego

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/hupe1980/primego/algorithm"
	"github.com/hupe1980/primego/internal/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAlgorithm struct {
	mock.Mock
}

func (m *mockAlgorithm) Name() algorithm.Name {
	return m.Called().Get(0).(algorithm.Name)
}

func (m *mockAlgorithm) Generate(ctx context.Context, upperLimit, threads int) (algorithm.Result, error) {
	args := m.Called(ctx, upperLimit, threads)
	return args.Get(0).(algorithm.Result), args.Error(1)
}

func newMock(name algorithm.Name) *mockAlgorithm {
	m := &mockAlgorithm{}
	m.On("Name").Return(name)
	return m
}

func TestService_Generate(t *testing.T) {
	svc := New()
	defer svc.Close()

	for _, name := range []string{"trial", "sieve", "atkin", "miller", "SIEVE"} {
		res, err := svc.Generate(context.Background(), Request{Algorithm: name, Limit: 30, Threads: 2})
		require.NoError(t, err, name)
		assert.Equal(t, []uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, res.Primes, name)
		assert.Equal(t, 10, res.Total())
		assert.False(t, res.Skipped)
		assert.False(t, res.Cached)
	}
}

func TestService_DefaultAlgorithmIsTrial(t *testing.T) {
	svc := New()

	res, err := svc.Generate(context.Background(), Request{Limit: 10, Threads: 1})
	require.NoError(t, err)
	assert.Equal(t, "trial", res.Algorithm)
	assert.Equal(t, []uint32{2, 3, 5, 7}, res.Primes)
}

func TestService_OneMillion(t *testing.T) {
	svc := New()

	res, err := svc.Generate(context.Background(), Request{Algorithm: "sieve", Limit: 1_000_000, Threads: 4})
	require.NoError(t, err)
	assert.Equal(t, 78498, res.Total())
	assert.Equal(t, uint32(999983), res.Largest())
	assert.Positive(t, res.Duration)
}

func TestService_UnsupportedAlgorithm(t *testing.T) {
	svc := New()

	_, err := svc.Generate(context.Background(), Request{Algorithm: "quantum", Limit: 10, Threads: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.ErrorIs(t, err, algorithm.ErrUnsupportedAlgorithm)

	var unsupported *ErrUnsupported
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "quantum", unsupported.Name)
	assert.Equal(t, "Unsupported algorithm: quantum", err.Error())
}

func TestService_GuardSkips(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	svc := New(WithMaxLimit(1000), WithMaxThreads(8), WithMetricsCollector(metrics))

	tests := []struct {
		limit, threads int
		reason         SkipReason
	}{
		{1, 1, SkipLimitBelowMinimum},
		{0, 1, SkipLimitBelowMinimum},
		{5, 10, SkipThreadsExceedLimit},
		{1001, 1, SkipLimitExceedsMax},
		{1000, 9, SkipThreadsExceedMax},
	}

	for _, tt := range tests {
		res, err := svc.Generate(context.Background(), Request{Algorithm: "sieve", Limit: tt.limit, Threads: tt.threads})
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, tt.reason, res.SkipReason)
		assert.Empty(t, res.Primes)
		assert.NotNil(t, res.Primes)
	}

	assert.Equal(t, int64(len(tests)), metrics.GetStats().SkipCount)
	assert.Empty(t, svc.RecentRequests())
}

func TestService_GuardRunsBeforeAlgorithm(t *testing.T) {
	m := newMock("mock")
	svc := New(WithRegistry(algorithm.NewRegistry(m)))

	res, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: 5, Threads: 10})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	m.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cache(t *testing.T) {
	m := newMock("mock")
	m.On("Generate", mock.Anything, 100, 2).Return(algorithm.Result{Primes: []uint32{2, 3, 97}}, nil).Once()

	metrics := &BasicMetricsCollector{}
	svc := New(WithRegistry(algorithm.NewRegistry(m)), WithMetricsCollector(metrics))

	first, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: 100, Threads: 2, UseCache: true})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Generate(context.Background(), Request{Algorithm: "MOCK", Limit: 100, Threads: 2, UseCache: true})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Primes, second.Primes)

	m.AssertNumberOfCalls(t, "Generate", 1)

	stats := svc.Stats()
	assert.True(t, stats.CacheEnabled)
	assert.Equal(t, 1, stats.CacheEntries)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, stats.CacheBytes, stats.MemoryUsage)

	ms := metrics.GetStats()
	assert.Equal(t, int64(1), ms.CacheHits)
	assert.Equal(t, int64(1), ms.CacheMisses)
	assert.Equal(t, int64(1), ms.GenerateCount)
}

func TestService_CacheBypass(t *testing.T) {
	m := newMock("mock")
	m.On("Generate", mock.Anything, 10, 1).Return(algorithm.Result{Primes: []uint32{2, 3, 5, 7}}, nil).Twice()

	svc := New(WithRegistry(algorithm.NewRegistry(m)))

	for i := 0; i < 2; i++ {
		res, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: 10, Threads: 1})
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}

	m.AssertExpectations(t)
	assert.Equal(t, 0, svc.Stats().CacheEntries)
}

func TestService_CacheDisabled(t *testing.T) {
	svc := New(WithCache(0))

	for i := 0; i < 2; i++ {
		res, err := svc.Generate(context.Background(), Request{Algorithm: "sieve", Limit: 100, Threads: 1, UseCache: true})
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}

	assert.False(t, svc.Stats().CacheEnabled)
	assert.Equal(t, 0, svc.ClearCache(context.Background()))
}

func TestService_ClearCache(t *testing.T) {
	var buf bytes.Buffer
	svc := New(WithLogger(NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))))
	ctx := context.Background()

	for _, limit := range []int{10, 20, 30} {
		_, err := svc.Generate(ctx, Request{Algorithm: "atkin", Limit: limit, Threads: 1, UseCache: true})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, svc.Stats().CacheEntries)

	assert.Equal(t, 3, svc.ClearCache(ctx))
	assert.Equal(t, 0, svc.Stats().CacheEntries)
	assert.Equal(t, int64(0), svc.Stats().MemoryUsage)
	assert.Contains(t, buf.String(), "result cache cleared")

	res, err := svc.Generate(ctx, Request{Algorithm: "atkin", Limit: 10, Threads: 1, UseCache: true})
	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestService_WorkerFailuresReportedNotCached(t *testing.T) {
	failure := algorithm.ChunkFailure{
		Index: 1,
		Range: partition.Range{Lower: 6, Upper: 10},
		Err:   algorithm.ErrChunkPanic,
	}
	m := newMock("mock")
	m.On("Generate", mock.Anything, 10, 2).
		Return(algorithm.Result{Primes: []uint32{2, 3, 5}, Failures: []algorithm.ChunkFailure{failure}}, nil).
		Twice()

	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	svc := New(
		WithRegistry(algorithm.NewRegistry(m)),
		WithMetricsCollector(metrics),
		WithLogger(NewLogger(slog.NewJSONHandler(&buf, nil))),
	)

	for i := 0; i < 2; i++ {
		res, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: 10, Threads: 2, UseCache: true})
		require.NoError(t, err)
		assert.False(t, res.Cached)
		assert.Equal(t, []uint32{2, 3, 5}, res.Primes)
		require.Len(t, res.Failures, 1)
	}

	m.AssertExpectations(t)
	assert.Equal(t, int64(2), metrics.GetStats().WorkerFailures)
	assert.Contains(t, buf.String(), "chunk worker failed")
	assert.Contains(t, buf.String(), "[6, 10]")
}

func TestService_GenerateError(t *testing.T) {
	m := newMock("mock")
	m.On("Generate", mock.Anything, 10, 1).Return(algorithm.Result{}, context.Canceled)

	metrics := &BasicMetricsCollector{}
	svc := New(WithRegistry(algorithm.NewRegistry(m)), WithMetricsCollector(metrics))

	_, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: 10, Threads: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), metrics.GetStats().GenerateErrors)
	assert.Empty(t, svc.RecentRequests())
}

func TestService_Cancelled(t *testing.T) {
	svc := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, Request{Algorithm: "sieve", Limit: 1000, Threads: 4})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestService_WorkerBudget(t *testing.T) {
	svc := New(WithWorkerBudget(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Generate(ctx, Request{Algorithm: "sieve", Limit: 100_000, Threads: 4})
			assert.NoError(t, err)
			assert.Equal(t, 9592, res.Total())
		}()
	}
	wg.Wait()

	stats := svc.Stats()
	assert.Equal(t, int64(0), stats.WorkersInUse)
	assert.Equal(t, int64(2), stats.WorkerBudget)
}

func TestService_WorkerBudgetReleasedOnPanic(t *testing.T) {
	m := newMock("boom")
	m.On("Generate", mock.Anything, 100, 4).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(algorithm.Result{}, nil)

	svc := New(WithRegistry(algorithm.NewRegistry(m)), WithWorkerBudget(8))

	for i := 0; i < 3; i++ {
		assert.PanicsWithValue(t, "boom", func() {
			_, _ = svc.Generate(context.Background(), Request{Algorithm: "boom", Limit: 100, Threads: 4})
		})
		assert.Equal(t, int64(0), svc.Stats().WorkersInUse)
	}
}

func TestService_MaxLimitClamped(t *testing.T) {
	svc := New(WithMaxLimit(math.MaxInt32))
	assert.Equal(t, math.MaxInt32, svc.Guard().MaxLimit)

	if strconv.IntSize < 64 {
		t.Skip("limits above 2^32-1 are not representable")
	}

	var wide int64 = 1 << 33
	m := newMock("mock")
	svc = New(WithRegistry(algorithm.NewRegistry(m)), WithMaxLimit(int(wide)))
	assert.Equal(t, int64(math.MaxUint32), int64(svc.Guard().MaxLimit))

	res, err := svc.Generate(context.Background(), Request{Algorithm: "mock", Limit: int(wide/2 + 20), Threads: 4})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, SkipLimitExceedsMax, res.SkipReason)
	m.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestResult_Largest(t *testing.T) {
	assert.Equal(t, uint32(0), Result{}.Largest())
	assert.Equal(t, uint32(0), Result{Primes: []uint32{}}.Largest())
	assert.Equal(t, uint32(97), Result{Primes: []uint32{2, 3, 97}}.Largest())
}

func TestService_RecentRequests(t *testing.T) {
	svc := New(WithRequestLogSize(3))
	ctx := context.Background()

	for limit := 10; limit <= 50; limit += 10 {
		_, err := svc.Generate(ctx, Request{Algorithm: "miller", Limit: limit, Threads: 1})
		require.NoError(t, err)
	}

	recent := svc.RecentRequests()
	require.Len(t, recent, 3)
	assert.Equal(t, 30, recent[0].Limit)
	assert.Equal(t, 50, recent[2].Limit)
	assert.Equal(t, "miller", recent[2].Algorithm)
	assert.Equal(t, 15, recent[2].Total)
}

func TestService_RequestRate(t *testing.T) {
	svc := New(WithRequestRate(1, 1))
	assert.True(t, svc.AllowRequest())
	assert.False(t, svc.AllowRequest())
	assert.Equal(t, 1.0, svc.Stats().RequestRate)
	assert.Equal(t, 1, svc.Stats().RequestBurst)

	unlimited := New()
	for i := 0; i < 10; i++ {
		assert.True(t, unlimited.AllowRequest())
	}
}

func TestService_Close(t *testing.T) {
	svc := New()
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	_, err := svc.Generate(context.Background(), Request{Algorithm: "sieve", Limit: 10, Threads: 1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestService_Introspection(t *testing.T) {
	svc := New(WithGuardPolicy(GuardPolicy{MaxLimit: 50, MaxThreads: 2}))

	assert.Equal(t, []string{"atkin", "miller", "sieve", "trial"}, svc.Algorithms())
	assert.Equal(t, GuardPolicy{MaxLimit: 50, MaxThreads: 2}, svc.Guard())
	assert.NotNil(t, svc.Logger())
}
