// Package pool provides the fixed-size worker pools that execute chunk work
// during a single generation call.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after Close has been called.
var ErrPoolClosed = errors.New("pool: closed")

// Task is one unit of chunk work. worker is the name of the goroutine
// running it, as produced by WorkerName.
type Task func(worker string)

// WorkerPool runs tasks on a fixed set of goroutines.
//
// A pool lives for one generation call: the call submits one task per chunk,
// then closes the pool after joining its chunk results. The queue holds one
// task per worker, so a call that splits into as many chunks as workers never
// waits in Submit.
type WorkerPool struct {
	label    string
	tasks    chan Task
	wg       sync.WaitGroup
	closed   atomic.Bool
	submitMu sync.RWMutex
}

// NewWorkerPool starts numWorkers goroutines named after label.
//
// If numWorkers <= 0, runtime.GOMAXPROCS(0) workers are started.
func NewWorkerPool(label string, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	wp := &WorkerPool{
		label: label,
		tasks: make(chan Task, numWorkers),
	}

	wp.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go wp.work(WorkerName(label, i))
	}

	return wp
}

// WorkerName returns the name of the i-th worker of a pool labeled label.
// A call that runs its single chunk inline reports worker 0.
func WorkerName(label string, i int) string {
	return fmt.Sprintf("%s-worker-%d", label, i)
}

func (wp *WorkerPool) work(name string) {
	defer wp.wg.Done()

	// Ranging over the queue runs tasks accepted before Close.
	for task := range wp.tasks {
		task(name)
	}
}

// Submit queues task. It blocks while the queue is full and returns
// ErrPoolClosed after Close, or ctx.Err() if ctx is done first.
func (wp *WorkerPool) Submit(ctx context.Context, task Task) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case wp.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits until every accepted task has run.
// It is safe to call more than once.
func (wp *WorkerPool) Close() {
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	wp.submitMu.Lock()
	close(wp.tasks)
	wp.submitMu.Unlock()

	wp.wg.Wait()
}
