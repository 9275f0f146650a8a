// Package metrics exports primego service metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/hupe1980/primego"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements primego.MetricsCollector.
type PrometheusCollector struct {
	genLatency     *prometheus.HistogramVec
	primesFound    *prometheus.CounterVec
	skips          *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	workerFailures *prometheus.CounterVec
}

var _ primego.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		genLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primego_generate_duration_seconds",
			Help:    "Latency of algorithm runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"algorithm", "status"}),
		primesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primego_primes_found_total",
			Help: "Total primes returned by algorithm runs",
		}, []string{"algorithm"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primego_skipped_requests_total",
			Help: "Requests rejected by the guard policy",
		}, []string{"algorithm", "reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primego_cache_lookups_total",
			Help: "Result cache lookups",
		}, []string{"algorithm", "result"}),
		workerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primego_worker_failures_total",
			Help: "Chunk workers that failed and contributed no primes",
		}, []string{"algorithm"}),
	}

	reg.MustRegister(c.genLatency, c.primesFound, c.skips, c.cacheLookups, c.workerFailures)

	return c
}

// RecordGenerate implements primego.MetricsCollector.
func (c *PrometheusCollector) RecordGenerate(algorithm string, _, count int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.genLatency.WithLabelValues(algorithm, status).Observe(d.Seconds())
	if err == nil {
		c.primesFound.WithLabelValues(algorithm).Add(float64(count))
	}
}

// RecordSkip implements primego.MetricsCollector.
func (c *PrometheusCollector) RecordSkip(algorithm string, reason primego.SkipReason) {
	c.skips.WithLabelValues(algorithm, string(reason)).Inc()
}

// RecordCache implements primego.MetricsCollector.
func (c *PrometheusCollector) RecordCache(algorithm string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(algorithm, result).Inc()
}

// RecordWorkerFailures implements primego.MetricsCollector.
func (c *PrometheusCollector) RecordWorkerFailures(algorithm string, failed int) {
	c.workerFailures.WithLabelValues(algorithm).Add(float64(failed))
}

// ServiceCollector exposes live service state (cache size, workers in use)
// as gauges computed at scrape time.
type ServiceCollector struct {
	svc *primego.Service

	cacheEntries *prometheus.Desc
	cacheBytes   *prometheus.Desc
	memoryUsage  *prometheus.Desc
	workersInUse *prometheus.Desc
}

var _ prometheus.Collector = (*ServiceCollector)(nil)

// NewServiceCollector creates a collector reading svc.Stats on every scrape.
func NewServiceCollector(svc *primego.Service) *ServiceCollector {
	return &ServiceCollector{
		svc:          svc,
		cacheEntries: prometheus.NewDesc("primego_cache_entries", "Results held in the cache", nil, nil),
		cacheBytes:   prometheus.NewDesc("primego_cache_bytes", "Bytes held in the cache", nil, nil),
		memoryUsage:  prometheus.NewDesc("primego_memory_usage_bytes", "Managed memory in use", nil, nil),
		workersInUse: prometheus.NewDesc("primego_workers_in_use", "Chunk worker units currently held", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *ServiceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cacheEntries
	ch <- c.cacheBytes
	ch <- c.memoryUsage
	ch <- c.workersInUse
}

// Collect implements prometheus.Collector.
func (c *ServiceCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.svc.Stats()
	ch <- prometheus.MustNewConstMetric(c.cacheEntries, prometheus.GaugeValue, float64(st.CacheEntries))
	ch <- prometheus.MustNewConstMetric(c.cacheBytes, prometheus.GaugeValue, float64(st.CacheBytes))
	ch <- prometheus.MustNewConstMetric(c.memoryUsage, prometheus.GaugeValue, float64(st.MemoryUsage))
	ch <- prometheus.MustNewConstMetric(c.workersInUse, prometheus.GaugeValue, float64(st.WorkersInUse))
}
