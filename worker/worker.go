// Package worker implements Worker and WorkerPool, the single-goroutine
// task queue and round-robin pool the NodeCalculator dispatches its
// per-depth offspring-generation tasks onto (spec §4.7). The run loop is
// the teacher's mcts.doSearch select-over-channel-and-ctx.Done idiom,
// generalized into a reusable type: the teacher inlines one such loop per
// search goroutine rather than factoring it out, since it only ever runs
// one flavor of task.
package worker

import (
	"sync"
)

// Status is a Worker's lifecycle state (spec §4.7).
type Status uint8

const (
	Idle Status = iota
	Scheduled
	Working
	FinishedOne
)

// Task is a nullary unit of work submitted to a Worker. A Task receives a
// cancellation signal via done, checked at whatever yield points the task
// itself defines; the worker does not forcibly interrupt a running task.
type Task func(done <-chan struct{})

// Worker is a single background goroutine draining a FIFO task queue.
// Submission order is preserved within one Worker; across Workers no order
// is guaranteed (spec §4.7, "Ordering guarantee").
type Worker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Task
	status   Status
	quit     chan struct{}
	interupt chan struct{}
	done     chan struct{}
}

// NewWorker starts a Worker's background goroutine and returns it.
func NewWorker() *Worker {
	w := &Worker{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Schedule appends task to the queue, transitioning Idle -> Scheduled.
func (w *Worker) Schedule(task Task) {
	w.mu.Lock()
	w.queue = append(w.queue, task)
	if w.status == Idle {
		w.status = Scheduled
	}
	w.cond.Broadcast()
	w.mu.Unlock()
}

// Size reports the number of tasks waiting in the queue (not counting one
// currently running).
func (w *Worker) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Empty reports whether the queue holds no pending tasks.
func (w *Worker) Empty() bool { return w.Size() == 0 }

// Status returns the worker's current lifecycle state.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// run is the worker's single goroutine: pop a task, run it, signal
// FinishedOne if it was cancelled mid-flight, return to Idle once the
// queue drains. Mirrors mcts.doSearch's select between an incoming task
// and ctx.Done(), but as a condition-variable wait rather than a channel
// select since the queue itself (not a fixed-size channel) is the work
// source.
//
// w.interupt is (re)created fresh right here, under w.mu, for every task
// about to run, and Task.done is that exact channel — never a value
// captured before an Interrupt call could have replaced it. Interrupt and
// InterruptAndClearQueue only ever close the channel already installed
// here; they never swap in a new one, so a task's done parameter always
// refers to the same channel an interrupt call would close.
func (w *Worker) run() {
	for {
		w.mu.Lock()
		for len(w.queue) == 0 {
			select {
			case <-w.quit:
				w.mu.Unlock()
				close(w.done)
				return
			default:
			}
			if w.status == FinishedOne || w.status == Scheduled {
				w.status = Idle
				w.cond.Broadcast()
			}
			w.cond.Wait()
		}
		select {
		case <-w.quit:
			w.mu.Unlock()
			close(w.done)
			return
		default:
		}

		task := w.queue[0]
		w.queue = w.queue[1:]
		w.status = Working
		cancel := make(chan struct{})
		w.interupt = cancel
		w.mu.Unlock()

		task(cancel)

		w.mu.Lock()
		cancelled := false
		select {
		case <-cancel:
			cancelled = true
		default:
		}
		switch {
		case cancelled:
			w.status = FinishedOne
		case len(w.queue) == 0:
			w.status = Idle
		default:
			w.status = Working
		}
		if w.interupt == cancel {
			w.interupt = nil
		}
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// closeInterupt closes w.interupt if one is installed and not already
// closed. Caller must hold w.mu.
func (w *Worker) closeInterupt() {
	if w.interupt == nil {
		return
	}
	select {
	case <-w.interupt:
	default:
		close(w.interupt)
	}
}

// Interrupt signals the currently-running task to abort at its next yield
// point. If join is true, Interrupt blocks until the worker reaches Idle.
func (w *Worker) Interrupt(join bool) {
	w.mu.Lock()
	w.closeInterupt()
	w.mu.Unlock()
	if join {
		w.Wait()
	}
}

// InterruptAndClearQueue interrupts the running task and discards every
// pending one.
func (w *Worker) InterruptAndClearQueue(join bool) {
	w.mu.Lock()
	w.queue = nil
	w.closeInterupt()
	w.cond.Broadcast()
	w.mu.Unlock()
	if join {
		w.Wait()
	}
}

// Wait blocks until the queue empties and the worker returns to Idle.
func (w *Worker) Wait() {
	w.WaitForStatus(Idle)
}

// WaitForStatus blocks until the worker's status equals s.
func (w *Worker) WaitForStatus(s Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.status != s {
		w.cond.Wait()
	}
}

// Stop terminates the worker's goroutine permanently. It does not interrupt
// a currently-running task: it blocks until that task returns, and any
// tasks still pending are never run. Call Interrupt first to cut a
// cooperative task short.
func (w *Worker) Stop() {
	close(w.quit)
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
