package primego

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/primego/algorithm"
	"github.com/hupe1980/primego/codec"
	"github.com/hupe1980/primego/internal/cache"
	"github.com/hupe1980/primego/internal/resource"
)

// Request describes one generation call.
type Request struct {
	// Algorithm is resolved case-insensitively. Empty means "trial".
	Algorithm string
	// Limit is the inclusive upper bound.
	Limit int
	// Threads is the number of chunk workers.
	Threads int
	// UseCache allows serving and storing the result through the cache.
	UseCache bool
}

// Result is the outcome of Service.Generate.
type Result struct {
	Algorithm string
	Limit     int
	Threads   int

	// Primes is ascending and duplicate-free. Never nil.
	Primes []uint32

	// Duration is the wall-clock time of the algorithm run, or of the cache
	// lookup when Cached is set.
	Duration time.Duration
	Cached   bool

	// Skipped is set when the guard policy rejected the request.
	Skipped    bool
	SkipReason SkipReason

	// Failures lists chunks missing from Primes.
	Failures []algorithm.ChunkFailure
}

// Total returns the number of primes.
func (r Result) Total() int { return len(r.Primes) }

// Largest returns the greatest prime found, or 0 when there is none.
func (r Result) Largest() uint32 {
	if len(r.Primes) == 0 {
		return 0
	}
	return r.Primes[len(r.Primes)-1]
}

// Service runs prime generation behind the guard policy, result cache and
// request log. It is safe for concurrent use.
type Service struct {
	opts     options
	registry *algorithm.Registry
	rc       *resource.Controller
	cache    *cache.ShardedLRUCache // nil if disabled
	requests *requestLog
	logger   *Logger
	metrics  MetricsCollector
	closed   atomic.Bool
}

// New creates a Service.
func New(optFns ...Option) *Service {
	opts := applyOptions(optFns)

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:  opts.memoryLimit,
		MaxWorkers:        opts.workerBudget,
		RequestsPerSecond: opts.requestsPerSec,
		RequestBurst:      opts.requestBurst,
	})

	s := &Service{
		opts:     opts,
		registry: opts.registry,
		rc:       rc,
		requests: newRequestLog(opts.requestLogSize),
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
	}

	if opts.cacheBytes > 0 {
		s.cache = cache.NewShardedLRUCache(opts.cacheBytes, rc)
	}

	return s
}

// Generate resolves req.Algorithm and returns the primes up to req.Limit.
//
// Unknown algorithms return an *ErrUnsupported. Requests rejected by the
// guard policy return an empty, skipped Result and a nil error. Worker
// failures are reported in Result.Failures, not as an error.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if s.closed.Load() {
		return Result{}, ErrClosed
	}

	name := req.Algorithm
	if name == "" {
		name = string(algorithm.NameTrial)
	}

	algo, err := s.registry.Lookup(name)
	if err != nil {
		return Result{}, translateError(name, err)
	}
	label := algo.Name().String()

	res := Result{
		Algorithm: label,
		Limit:     req.Limit,
		Threads:   req.Threads,
		Primes:    []uint32{},
	}

	if reason := s.opts.guard.Check(req.Limit, req.Threads); reason != SkipNone {
		s.logger.LogSkip(ctx, label, req.Limit, req.Threads, reason)
		s.metrics.RecordSkip(label, reason)
		res.Skipped = true
		res.SkipReason = reason
		return res, nil
	}

	key := cache.CacheKey{Algorithm: label, Limit: req.Limit, Threads: req.Threads}
	useCache := req.UseCache && s.cache != nil

	if useCache {
		if primes, dur, ok := s.lookup(ctx, key); ok {
			res.Primes = primes
			res.Duration = dur
			res.Cached = true
			s.requests.add(s.record(res))
			return res, nil
		}
	}

	if err := s.rc.AcquireWorkers(ctx, req.Threads); err != nil {
		return Result{}, err
	}
	out, dur, err := s.run(ctx, algo, req)
	res.Duration = dur

	s.logger.LogGenerate(ctx, label, req.Limit, req.Threads, len(out.Primes), res.Duration, err)
	s.metrics.RecordGenerate(label, req.Threads, len(out.Primes), res.Duration, err)
	if err != nil {
		return Result{}, fmt.Errorf("primego: generate %s: %w", label, err)
	}

	res.Primes = out.Primes
	if !out.Complete() {
		res.Failures = out.Failures
		s.logger.LogWorkerFailures(ctx, label, out.Failures)
		s.metrics.RecordWorkerFailures(label, len(out.Failures))
	} else if useCache {
		s.store(ctx, key, out.Primes)
	}

	s.requests.add(s.record(res))

	return res, nil
}

// run executes algo and gives back the req.Threads worker units the caller
// acquired, also when algo panics.
func (s *Service) run(ctx context.Context, algo algorithm.Algorithm, req Request) (algorithm.Result, time.Duration, error) {
	defer s.rc.ReleaseWorkers(req.Threads)

	start := time.Now()
	out, err := algo.Generate(ctx, req.Limit, req.Threads)

	return out, time.Since(start), err
}

func (s *Service) lookup(ctx context.Context, key cache.CacheKey) ([]uint32, time.Duration, bool) {
	start := time.Now()

	blob, ok := s.cache.Get(ctx, key)
	s.metrics.RecordCache(key.Algorithm, ok)
	if !ok {
		return nil, 0, false
	}

	primes, err := codec.UnpackPrimes(blob)
	if err != nil {
		s.logger.WarnContext(ctx, "dropping corrupt cache entry", "key", key.String(), "error", err)
		s.cache.Invalidate(func(k cache.CacheKey) bool { return k == key })
		return nil, 0, false
	}

	return primes, time.Since(start), true
}

func (s *Service) store(ctx context.Context, key cache.CacheKey, primes []uint32) {
	blob, err := codec.PackPrimes(primes, s.opts.cacheCompression)
	if err != nil {
		s.logger.WarnContext(ctx, "not caching result", "key", key.String(), "error", err)
		return
	}
	s.cache.Set(ctx, key, blob)
}

func (s *Service) record(res Result) RequestRecord {
	return RequestRecord{
		Algorithm: res.Algorithm,
		Limit:     res.Limit,
		Threads:   res.Threads,
		Total:     res.Total(),
		Duration:  res.Duration,
		Cached:    res.Cached,
		At:        time.Now(),
	}
}

// ClearCache drops every cached result and returns how many were removed.
func (s *Service) ClearCache(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}

	n := s.cache.Len()
	s.cache.Invalidate(func(cache.CacheKey) bool { return true })
	s.logger.LogCacheClear(ctx, n)

	return n
}

// RecentRequests returns the most recent served requests, oldest first.
func (s *Service) RecentRequests() []RequestRecord {
	return s.requests.recent()
}

// AllowRequest reports whether the request rate limit admits one more
// request now. It always reports true when no rate is configured.
func (s *Service) AllowRequest() bool {
	return s.rc.AllowRequest()
}

// Algorithms returns the registered algorithm names.
func (s *Service) Algorithms() []string {
	names := s.registry.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

// Guard returns the active guard policy.
func (s *Service) Guard() GuardPolicy {
	return s.opts.guard
}

// Stats is a snapshot of service state.
type Stats struct {
	CacheEnabled bool
	CacheEntries int
	CacheBytes   int64
	CacheHits    int64
	CacheMisses  int64
	MemoryUsage  int64
	MemoryLimit  int64
	WorkersInUse int64
	WorkerBudget int64
	RequestRate  float64
	RequestBurst int
}

// Stats returns current cache and resource statistics.
func (s *Service) Stats() Stats {
	st := Stats{
		MemoryUsage:  s.rc.MemoryUsage(),
		MemoryLimit:  s.rc.MemoryLimit(),
		WorkersInUse: s.rc.WorkersInUse(),
		WorkerBudget: s.rc.MaxWorkers(),
	}
	st.RequestRate, st.RequestBurst = s.rc.RequestRate()
	if s.cache != nil {
		st.CacheEnabled = true
		st.CacheEntries = s.cache.Len()
		st.CacheBytes = s.cache.Size()
		st.CacheHits, st.CacheMisses = s.cache.Stats()
	}
	return st
}

// Logger returns the service logger.
func (s *Service) Logger() *Logger {
	return s.logger
}

// Close releases the cache. Generate returns ErrClosed afterwards.
func (s *Service) Close() error {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
