package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(50))
	assert.True(t, c.TryAcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Over the limit.
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	assert.True(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	assert.True(t, c.TryAcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())

	// Non-positive sizes are ignored.
	assert.True(t, c.TryAcquireMemory(0))
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func acquireWithin(c *Controller, n int, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return c.AcquireWorkers(ctx, n)
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 4})

	require.NoError(t, c.AcquireWorkers(t.Context(), 3))
	assert.Equal(t, int64(3), c.WorkersInUse())

	// Only one unit left.
	assert.ErrorIs(t, acquireWithin(c, 2, 20*time.Millisecond), context.DeadlineExceeded)
	require.NoError(t, acquireWithin(c, 1, 20*time.Millisecond))
	assert.Equal(t, int64(4), c.WorkersInUse())

	assert.ErrorIs(t, acquireWithin(c, 1, 20*time.Millisecond), context.DeadlineExceeded)

	c.ReleaseWorkers(3)
	c.ReleaseWorkers(1)
	assert.Equal(t, int64(0), c.WorkersInUse())
}

func TestController_WorkersBlockUntilReleased(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	require.NoError(t, c.AcquireWorkers(t.Context(), 2))

	acquired := make(chan error, 1)
	go func() { acquired <- c.AcquireWorkers(context.Background(), 1) }()

	select {
	case <-acquired:
		t.Fatal("acquired while the budget was exhausted")
	case <-time.After(20 * time.Millisecond):
	}

	c.ReleaseWorkers(2)
	require.NoError(t, <-acquired)
	assert.Equal(t, int64(1), c.WorkersInUse())
}

func TestController_WorkersClampedToBudget(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	// An oversized request takes the whole budget instead of deadlocking.
	require.NoError(t, c.AcquireWorkers(t.Context(), 16))
	assert.Equal(t, int64(2), c.WorkersInUse())
	assert.ErrorIs(t, acquireWithin(c, 1, 20*time.Millisecond), context.DeadlineExceeded)

	c.ReleaseWorkers(16)
	assert.Equal(t, int64(0), c.WorkersInUse())
	require.NoError(t, acquireWithin(c, 1, 20*time.Millisecond))
}

func TestController_UnlimitedWorkers(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireWorkers(t.Context(), 1000))
	require.NoError(t, c.AcquireWorkers(t.Context(), 1000))
	assert.Equal(t, int64(2000), c.WorkersInUse())
	assert.Equal(t, int64(0), c.MaxWorkers())
}

func TestController_Requests(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 1, RequestBurst: 2})

	assert.True(t, c.AllowRequest())
	assert.True(t, c.AllowRequest())
	assert.False(t, c.AllowRequest())

	rps, burst := c.RequestRate()
	assert.Equal(t, 1.0, rps)
	assert.Equal(t, 2, burst)
}

func TestController_DefaultBurst(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 5})

	_, burst := c.RequestRate()
	assert.Equal(t, 5, burst)
}

func TestController_UnlimitedRequests(t *testing.T) {
	c := NewController(Config{})

	for i := 0; i < 100; i++ {
		assert.True(t, c.AllowRequest())
	}

	rps, burst := c.RequestRate()
	assert.Zero(t, rps)
	assert.Zero(t, burst)
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10) // Should not panic
	assert.NoError(t, c.AcquireWorkers(context.Background(), 8))
	c.ReleaseWorkers(8)
	assert.True(t, c.AllowRequest())
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.WorkersInUse())
}
