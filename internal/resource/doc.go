// Package resource implements the Controller that bounds process-wide
// resources shared by concurrent generation calls.
//
// The Controller governs three resource types:
//
//   - Memory: bytes held by the result cache (non-blocking, fail-fast)
//   - Workers: chunk workers across all in-flight Generate calls
//   - Requests: admission rate of API requests (token bucket)
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Limit   │  Worker Budget  │  Request Rate Limiter   │
//	│  (fail-fast)    │  (weighted sem) │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  TryAcquire-    │  AcquireWorkers │  AllowRequest           │
//	│  Memory         │  ReleaseWorkers │  RequestRate            │
//	│  ReleaseMemory  │  WorkersInUse   │                         │
//	│  MemoryUsage    │                 │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Worker Budget
//
// A generation call with threads workers acquires threads units before it
// creates its pool and releases them after the join:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers: 64,
//	})
//
//	if err := rc.AcquireWorkers(ctx, threads); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorkers(threads)
//
// Requests for more units than the budget are clamped to the budget so a
// single oversized call still runs, alone.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops that
// always succeed.
package resource
