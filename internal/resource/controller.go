package resource

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxWorkers is the number of chunk workers that may run at once across
	// all generation calls. If 0, the worker budget is unlimited.
	MaxWorkers int64

	// RequestsPerSecond is the sustained request admission rate.
	// If 0, unlimited.
	RequestsPerSecond float64

	// RequestBurst is the token bucket size. Defaults to
	// max(1, RequestsPerSecond).
	RequestBurst int
}

// Controller manages global resources (memory, workers, request rate).
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Workers
	workerSem   *semaphore.Weighted // nil if unlimited
	workersUsed atomic.Int64

	// Requests
	reqLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxWorkers > 0 {
		c.workerSem = semaphore.NewWeighted(cfg.MaxWorkers)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.RequestBurst
		if burst <= 0 {
			burst = max(1, int(cfg.RequestsPerSecond))
		}
		c.cfg.RequestBurst = burst
		c.reqLimiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// TryAcquireMemory reserves memory and reports whether it succeeded.
// It never blocks; the cache evicts or drops entries on failure.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// clampWorkers limits n to the configured budget.
func (c *Controller) clampWorkers(n int) int64 {
	w := int64(n)
	if c.cfg.MaxWorkers > 0 && w > c.cfg.MaxWorkers {
		w = c.cfg.MaxWorkers
	}
	return w
}

// AcquireWorkers reserves n worker units, blocking until they are available
// or ctx is done. n is clamped to the budget.
func (c *Controller) AcquireWorkers(ctx context.Context, n int) error {
	if c == nil || n <= 0 {
		return nil
	}

	w := c.clampWorkers(n)
	if c.workerSem != nil {
		if err := c.workerSem.Acquire(ctx, w); err != nil {
			return err
		}
	}

	c.workersUsed.Add(w)
	return nil
}

// ReleaseWorkers releases n worker units acquired earlier.
func (c *Controller) ReleaseWorkers(n int) {
	if c == nil || n <= 0 {
		return
	}

	w := c.clampWorkers(n)
	if c.workerSem != nil {
		c.workerSem.Release(w)
	}
	c.workersUsed.Add(-w)
}

// WorkersInUse returns the number of worker units currently held.
func (c *Controller) WorkersInUse() int64 {
	if c == nil {
		return 0
	}
	return c.workersUsed.Load()
}

// MaxWorkers returns the worker budget (0 if unlimited).
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxWorkers
}

// AllowRequest reports whether a request may proceed now.
func (c *Controller) AllowRequest() bool {
	if c == nil || c.reqLimiter == nil {
		return true
	}
	return c.reqLimiter.AllowN(time.Now(), 1)
}

// RequestRate returns the configured rate and burst (0, 0 if unlimited).
func (c *Controller) RequestRate() (perSecond float64, burst int) {
	if c == nil || c.reqLimiter == nil {
		return 0, 0
	}
	return c.cfg.RequestsPerSecond, c.cfg.RequestBurst
}
