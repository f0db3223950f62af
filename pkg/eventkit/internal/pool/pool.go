// Package pool provides the task executors backing eventkit services:
// a fixed-size worker pool with an unbounded FIFO queue, and an elastic
// pool that runs each task on its own goroutine. Both support
// stop-intake shutdown with observable drain state.
package pool

import (
	"sync"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of an executor, used for drain
// progress logging during shutdown.
type Stats struct {
	// Queued is the number of tasks accepted but not yet started.
	Queued int

	// Active is the number of tasks currently executing.
	Active int

	// Workers is the number of worker goroutines (0 for elastic pools,
	// which size themselves per task).
	Workers int
}

// Worker is a fixed-size pool draining an unbounded FIFO queue.
// Submit never blocks the caller on task execution.
type Worker struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	active int

	workers    int
	terminated chan struct{}
}

// NewWorker creates a pool with the given number of workers, minimum 1.
func NewWorker(workers int) *Worker {
	if workers < 1 {
		workers = 1
	}
	p := &Worker{
		workers:    workers,
		terminated: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			p.work()
		}()
	}
	go func() {
		wg.Wait()
		close(p.terminated)
	}()
	return p
}

func (p *Worker) work() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Closed and drained.
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		task()

		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}
}

// Submit enqueues a task. It returns false if the pool has been shut
// down; the task is not run in that case.
func (p *Worker) Submit(task func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
	return true
}

// Shutdown stops intake. Queued and in-flight tasks continue to run;
// workers exit once the queue is empty.
func (p *Worker) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Terminated reports whether the pool has shut down and all workers
// have exited.
func (p *Worker) Terminated() bool {
	select {
	case <-p.terminated:
		return true
	default:
		return false
	}
}

// Stats returns a snapshot of queue depth and active tasks.
func (p *Worker) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Queued: len(p.queue), Active: p.active, Workers: p.workers}
}

// Elastic runs each submitted task on its own goroutine. It is intended
// for cheap, latency-sensitive work that must never queue behind slower
// tasks.
type Elastic struct {
	closed atomic.Bool
	active atomic.Int64
}

// NewElastic creates an elastic pool.
func NewElastic() *Elastic {
	return &Elastic{}
}

// Submit starts the task on a new goroutine. It returns false if the
// pool has been shut down; the task is not run in that case.
func (p *Elastic) Submit(task func()) bool {
	// The active count is raised before the closed check is re-read so
	// Terminated cannot observe closed && active==0 between the two.
	p.active.Add(1)
	if p.closed.Load() {
		p.active.Add(-1)
		return false
	}
	go func() {
		defer p.active.Add(-1)
		task()
	}()
	return true
}

// Shutdown stops intake. In-flight tasks continue to run.
func (p *Elastic) Shutdown() {
	p.closed.Store(true)
}

// Terminated reports whether the pool has shut down and no tasks remain
// in flight.
func (p *Elastic) Terminated() bool {
	return p.closed.Load() && p.active.Load() == 0
}

// Stats returns a snapshot of in-flight task count.
func (p *Elastic) Stats() Stats {
	return Stats{Active: int(p.active.Load())}
}

// Executor is the interface shared by both pool flavors.
type Executor interface {
	Submit(task func()) bool
	Shutdown()
	Terminated() bool
	Stats() Stats
}

// Compile-time interface checks.
var (
	_ Executor = (*Worker)(nil)
	_ Executor = (*Elastic)(nil)
)
