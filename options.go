package primego

import (
	"log/slog"

	"github.com/hupe1980/primego/algorithm"
	"github.com/hupe1980/primego/codec"
)

// DefaultCacheBytes is the default result cache capacity.
const DefaultCacheBytes int64 = 64 << 20

type options struct {
	guard            GuardPolicy
	metricsCollector MetricsCollector
	logger           *Logger
	registry         *algorithm.Registry
	cacheBytes       int64
	cacheCompression codec.Compression
	memoryLimit      int64
	workerBudget     int64
	requestsPerSec   float64
	requestBurst     int
	requestLogSize   int
}

func defaultOptions() options {
	return options{
		guard:            DefaultGuardPolicy(),
		cacheBytes:       DefaultCacheBytes,
		cacheCompression: codec.CompressionLZ4,
		requestLogSize:   DefaultRequestLogSize,
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	o.guard = o.guard.normalized()
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.registry == nil {
		o.registry = algorithm.DefaultRegistry()
	}
	return o
}

// Option configures a Service.
type Option func(*options)

// WithGuardPolicy replaces the whole guard policy.
func WithGuardPolicy(g GuardPolicy) Option {
	return func(o *options) {
		o.guard = g
	}
}

// WithMaxLimit sets the largest upper limit the service will run.
// Larger requests are skipped with SkipLimitExceedsMax. Values above
// algorithm.MaxUpperLimit are clamped to it.
func WithMaxLimit(limit int) Option {
	return func(o *options) {
		o.guard.MaxLimit = limit
	}
}

// WithMaxThreads sets the largest thread count the service will run.
func WithMaxThreads(threads int) Option {
	return func(o *options) {
		o.guard.MaxThreads = threads
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &primego.BasicMetricsCollector{}
//	svc := primego.New(primego.WithMetricsCollector(metrics))
//	// ... use svc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.GenerateCount, stats.GenerateAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := primego.NewJSONLogger(slog.LevelInfo)
//	svc := primego.New(primego.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithRegistry sets the algorithms the service resolves names against.
func WithRegistry(r *algorithm.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCache sets the result cache capacity in bytes. 0 disables caching.
func WithCache(capacityBytes int64) Option {
	return func(o *options) {
		o.cacheBytes = capacityBytes
	}
}

// WithCacheCompression selects how cached prime lists are compressed.
// The default is LZ4.
func WithCacheCompression(c codec.Compression) Option {
	return func(o *options) {
		o.cacheCompression = c
	}
}

// WithMemoryLimit caps the bytes held by the result cache across all shards.
// 0 means only the cache capacity applies.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithWorkerBudget bounds the number of chunk workers running at once across
// concurrent Generate calls. 0 means unbounded.
func WithWorkerBudget(workers int) Option {
	return func(o *options) {
		o.workerBudget = int64(workers)
	}
}

// WithRequestRate limits AllowRequest to perSecond requests with the given
// burst. 0 disables rate limiting.
func WithRequestRate(perSecond float64, burst int) Option {
	return func(o *options) {
		o.requestsPerSec = perSecond
		o.requestBurst = burst
	}
}

// WithRequestLogSize sets how many recent requests RecentRequests keeps.
func WithRequestLogSize(n int) Option {
	return func(o *options) {
		o.requestLogSize = n
	}
}
