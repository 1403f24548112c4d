package pool

import (
	"runtime"
	"sync"
)

// A Task is a unit of work executed by a pool worker. The worker argument is
// the zero-based index of the worker goroutine running the task and can be
// used to select worker-local state.
type Task = func(worker int)

// Pool runs submitted tasks on a fixed set of worker goroutines. Tasks are
// queued in an unbounded FIFO so that Submit never blocks; this allows tasks
// to submit further tasks without deadlocking the pool.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool

	numWorkers int
	pending    sync.WaitGroup
	workers    sync.WaitGroup
}

// Create a pool with numWorkers goroutines. If numWorkers <= 0 the pool
// spawns one worker per logical CPU.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	p := &Pool{
		numWorkers: numWorkers,
	}
	p.cond = sync.NewCond(&p.mu)

	p.workers.Add(numWorkers)
	for worker := 0; worker < numWorkers; worker++ {
		go p.run(worker)
	}
	return p
}

// Number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Queue a task for execution. Submitting to a closed pool panics.
func (p *Pool) Submit(task Task) {
	p.pending.Add(1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.pending.Done()
		panic("pool: submit on closed pool")
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()
	p.cond.Signal()
}

// Block until all submitted tasks, including tasks submitted by other tasks,
// have completed.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Wait for pending tasks and shut down the worker goroutines.
func (p *Pool) Close() {
	p.Wait()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()

	p.workers.Wait()
}

func (p *Pool) run(worker int) {
	defer p.workers.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task(worker)
		p.pending.Done()
	}
}
