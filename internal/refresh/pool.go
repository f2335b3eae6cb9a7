package refresh

import (
	"context"
	"errors"
	"sync"
)

// DefaultWorkers is the default size of the detached-execution pool.
const DefaultWorkers = 4

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// task pairs a unit of work with its completion channel.
type task struct {
	run  func(ctx context.Context) error
	done chan error
}

// Pool runs detached units of work on a fixed number of workers. Each
// submitted task gets a buffered completion channel; production callers
// drop it, tests use it to await the detached phase.
type Pool struct {
	tasks chan task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool with the given number of workers. Tasks run with
// the pool's base context, not the submitter's: the triggering call may
// return (and its context be canceled) long before the work finishes.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	p := &Pool{
		tasks: make(chan task),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				t.done <- t.run(ctx)
				close(t.done)
			}
		}()
	}

	return p
}

// Submit hands run to the pool and returns its completion channel. Blocks
// while all workers are busy, bounding concurrent refreshes.
func (p *Pool) Submit(run func(ctx context.Context) error) (<-chan error, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	t := task{run: run, done: make(chan error, 1)}
	p.tasks <- t
	return t.done, nil
}

// Close stops accepting tasks and waits for in-flight work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
