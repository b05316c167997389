// Package timer replaces the JavaScript setTimeout pattern used throughout
// the original browser-based simulation with a priority queue of deferred
// tasks drained by the tick loop itself. This keeps every "asynchronous"
// wait (lock acquisition, fault-reset, power-up ramps) on the same
// single-threaded execution context as the rest of the simulation state, so
// cancellation is a plain queue removal with no races — no goroutine, no
// real-time timer, no channel to leak.
//
// Only Cancel stops a task: once Cancel is called, the task will not fire.
// Discarding a Handle without cancelling it leaves the task queued, and it
// fires on the next Advance that reaches its fire time. Every scheduled
// timer in the core MUST be tracked through a Handle and cancelled when its
// owning component loses the precondition that justified scheduling it
// (e.g. powering off cancels a pending lock-acquisition timer). Failing to
// do so is the historical bug this contract exists to prevent.
package timer

import "container/heap"

// Task is a unit of deferred work. It is invoked by Advance once its fire
// time has elapsed.
type Task func()

// Handle is a cancellable token for a single scheduled task.
type Handle struct {
	id        uint64
	cancelled bool
}

// Cancel marks the handle's task as cancelled. Advance skips cancelled
// tasks without invoking them. Cancelling an already-fired or
// already-cancelled handle is a no-op.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

type entry struct {
	fireAtMs int64
	task     Task
	handle   *Handle
	index    int
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].fireAtMs < h[j].fireAtMs }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is a min-heap of (fire_at, task) pairs keyed by a simulation clock
// expressed in milliseconds. The owning tick loop calls Advance(nowMs) once
// per tick; every task whose fire time has elapsed and was not cancelled
// runs synchronously, in fire-time order.
type Queue struct {
	heap   entryHeap
	nextID uint64
}

// NewQueue returns an empty deferred-task queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule queues fn to run the first time Advance is called with
// a time >= nowMs plus delayMs. Returns a Handle the
// caller must retain in order to cancel the task later.
func (q *Queue) Schedule(nowMs, delayMs int64, fn Task) *Handle {
	h := &Handle{id: q.nextID}
	q.nextID++
	heap.Push(&q.heap, &entry{fireAtMs: nowMs + delayMs, task: fn, handle: h})
	return h
}

// Advance runs every non-cancelled task whose fire time is <= nowMs, in
// ascending fire-time order. Cancelled tasks are discarded without running.
func (q *Queue) Advance(nowMs int64) {
	for q.heap.Len() > 0 {
		top := q.heap[0]
		if top.fireAtMs > nowMs {
			return
		}
		heap.Pop(&q.heap)
		if top.handle.cancelled {
			continue
		}
		top.handle.cancelled = true // a fired task cannot fire twice
		top.task()
	}
}

// Len returns the number of tasks still pending (including cancelled ones
// not yet drained by Advance).
func (q *Queue) Len() int {
	return q.heap.Len()
}
