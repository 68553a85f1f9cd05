package worker

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool owns N Workers and dispatches tasks to them round-robin (spec
// §4.7). Schedule order across workers is not guaranteed; within a single
// worker it is FIFO.
type Pool struct {
	mu      sync.Mutex
	workers []*Worker
	next    int
}

// NewPool starts a Pool of n Workers. n must be >= 1.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{workers: make([]*Worker, n)}
	for i := range p.workers {
		p.workers[i] = NewWorker()
	}
	return p
}

// Schedule assigns task to the next worker in rotation.
func (p *Pool) Schedule(task Task) {
	p.mu.Lock()
	w := p.workers[p.next]
	p.next = (p.next + 1) % len(p.workers)
	p.mu.Unlock()
	w.Schedule(task)
}

// Resize grows the pool by starting new Workers, or shrinks it by
// interrupting and stopping every worker at index >= n.
func (p *Pool) Resize(n int) {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.workers) {
		for len(p.workers) < n {
			p.workers = append(p.workers, NewWorker())
		}
		return
	}
	for _, w := range p.workers[n:] {
		w.InterruptAndClearQueue(true)
		w.Stop()
	}
	p.workers = p.workers[:n]
	if p.next >= n {
		p.next = 0
	}
}

// Wait blocks until every worker has drained its queue and returned to Idle.
// Workers are waited on concurrently via errgroup, so one worker with a long
// queue doesn't serialize behind another that finished already.
func (p *Pool) Wait() {
	var g errgroup.Group
	for _, w := range p.snapshot() {
		w := w
		g.Go(func() error {
			w.Wait()
			return nil
		})
	}
	g.Wait()
}

// InterruptAndClearQueue performs the "quiesce all" protocol (spec §5,
// "Deadlock discipline"): lock each worker in index order to stop new
// pushes, clear pending queues, interrupt whatever is running without
// joining, then wait for every worker to settle back to Idle. Acquiring
// worker locks in a fixed index order, and releasing them before blocking
// on any status wait, is what keeps this free of the classic
// lock-ordering deadlock a naive "lock everyone, then wait" would invite.
func (p *Pool) InterruptAndClearQueue() {
	workers := p.snapshot()
	for _, w := range workers {
		w.mu.Lock()
	}
	for _, w := range workers {
		w.queue = nil
		w.closeInterupt()
		w.cond.Broadcast()
	}
	for i := len(workers) - 1; i >= 0; i-- {
		workers[i].mu.Unlock()
	}
	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.Wait()
			return nil
		})
	}
	g.Wait()
}

// GetActiveWorkerCount returns the number of workers currently Working.
func (p *Pool) GetActiveWorkerCount() int {
	count := 0
	for _, w := range p.snapshot() {
		if w.Status() == Working {
			count++
		}
	}
	return count
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

func (p *Pool) snapshot() []*Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}
