// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The storefront uses it for work that must not hold up a response, such as
// releasing a replaced product image. When all workers are busy, Submit
// returns ErrPoolFull immediately so the caller can decide to run the job
// inline, retry, or drop it.
//
//	pool := workerpool.New(4)
//	defer pool.Shutdown()
//
//	err := pool.Submit("release image", func(ctx context.Context) error {
//	    return images.Release(ctx, ref)
//	})
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Job is a unit of background work. The context is cancelled once the pool
// has finished draining on Shutdown.
type Job func(ctx context.Context) error

type task struct {
	name string
	job  Job
}

// Pool is a bounded goroutine pool.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan task
	wg     sync.WaitGroup
	once   sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Pool with the given number of workers.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		// Buffer equal to 2× the worker count so bursts can be absorbed.
		tasks:  make(chan task, size*2),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues job without blocking.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(name string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task{name: name, job: job}:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait is like Submit but blocks until a slot is available or ctx is
// done.
func (p *Pool) SubmitWait(ctx context.Context, name string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task{name: name, job: job}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting new tasks, waits for queued and in-flight tasks
// to complete, and releases all worker goroutines. Safe to call repeatedly.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()

		p.wg.Wait()
		p.cancel()
	})
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		err := p.safeRun(t)
		metrics.RecordJob(err)
		if err != nil {
			logger.Error("workerpool: job failed", "job", t.name, "error", err)
		}
	}
}

// safeRun executes a task, turning a panic into an error so a bad job
// doesn't kill the worker goroutine.
func (p *Pool) safeRun(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.job(p.ctx)
}
