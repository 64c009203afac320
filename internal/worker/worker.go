package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

type WorkerPool struct {
	jobs    chan job
	wg      sync.WaitGroup
	timeout time.Duration

	// mu guards closed and the close of jobs against concurrent sends
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts size workers. Each task gets its own timeout context.
func NewWorkerPool(size int, timeout time.Duration) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		jobs:    make(chan job, 256),
		timeout: timeout,
	}

	for range size {
		wp.wg.Add(1)
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done()
	for j := range wp.jobs {
		wp.run(j)
	}
}

func (wp *WorkerPool) run(j job) {
	ctx := context.Background()
	if wp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.timeout)
		defer cancel()
	}
	if err := j.run(ctx); err != nil {
		log.Error().Err(err).Str("task", j.name).Msg("worker task failed")
		return
	}
	log.Debug().Str("task", j.name).Msg("worker task done")
}

// Submit queues a task and reports whether it was accepted.
// Tasks are dropped while shutting down or when the queue is full.
func (wp *WorkerPool) Submit(name string, t Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		log.Warn().Str("task", name).Msg("task submitted during shutdown, dropping")
		return false
	}
	select {
	case wp.jobs <- job{name: name, run: t}:
		return true
	default:
		log.Warn().Str("task", name).Msg("task queue full, dropping")
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.jobs)
	wp.mu.Unlock()

	wp.wg.Wait()
}
