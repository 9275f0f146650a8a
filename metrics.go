package primego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the metrics package for a ready-made collector).
type MetricsCollector interface {
	// RecordGenerate is called after each algorithm run.
	// count is the number of primes found, err is nil if successful.
	RecordGenerate(algorithm string, threads, count int, duration time.Duration, err error)

	// RecordSkip is called when the guard policy rejects a request.
	RecordSkip(algorithm string, reason SkipReason)

	// RecordCache is called on every cache lookup.
	RecordCache(algorithm string, hit bool)

	// RecordWorkerFailures is called when chunks of a run failed.
	RecordWorkerFailures(algorithm string, failed int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGenerate(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSkip(string, SkipReason)                         {}
func (NoopMetricsCollector) RecordCache(string, bool)                              {}
func (NoopMetricsCollector) RecordWorkerFailures(string, int)                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GenerateCount      atomic.Int64
	GenerateErrors     atomic.Int64
	GenerateTotalNanos atomic.Int64
	PrimesFound        atomic.Int64
	SkipCount          atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	WorkerFailures     atomic.Int64
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(_ string, _, count int, duration time.Duration, err error) {
	b.GenerateCount.Add(1)
	b.GenerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GenerateErrors.Add(1)
		return
	}
	b.PrimesFound.Add(int64(count))
}

// RecordSkip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkip(string, SkipReason) {
	b.SkipCount.Add(1)
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(_ string, hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// RecordWorkerFailures implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWorkerFailures(_ string, failed int) {
	b.WorkerFailures.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GenerateCount:    b.GenerateCount.Load(),
		GenerateErrors:   b.GenerateErrors.Load(),
		GenerateAvgNanos: b.getAvgGenerateNanos(),
		PrimesFound:      b.PrimesFound.Load(),
		SkipCount:        b.SkipCount.Load(),
		CacheHits:        b.CacheHits.Load(),
		CacheMisses:      b.CacheMisses.Load(),
		WorkerFailures:   b.WorkerFailures.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGenerateNanos() int64 {
	count := b.GenerateCount.Load()
	if count == 0 {
		return 0
	}
	return b.GenerateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GenerateCount    int64
	GenerateErrors   int64
	GenerateAvgNanos int64
	PrimesFound      int64
	SkipCount        int64
	CacheHits        int64
	CacheMisses      int64
	WorkerFailures   int64
}
