// Package job carries background-work results into the single-threaded event
// loop. Background goroutines never touch editor state directly; they hand a
// callback to one of two completion queues and the loop runs it inside its
// dispatch step.
package job

import "github.com/tkxue/helix/editor"

// Callback mutates editor state. It only ever runs on the loop goroutine.
type Callback func(*editor.Editor)

// Queue holds the two completion channels. Immediate results are also
// drained synchronously before every render, so a dispatched command can
// enqueue follow-up work that lands before paint. Wait results are jobs that
// must finish before the process may exit.
type Queue struct {
	Immediate chan Callback
	Wait      chan Callback

	pending chan struct{} // tokens for in-flight must-finish jobs
}

// NewQueue sizes both channels generously; producers block rather than drop
// if the loop falls far behind.
func NewQueue() *Queue {
	return &Queue{
		Immediate: make(chan Callback, 64),
		Wait:      make(chan Callback, 16),
		pending:   make(chan struct{}, 1024),
	}
}

// Spawn runs fn on its own goroutine and delivers the resulting callback to
// the immediate queue. A nil callback result is dropped.
func (q *Queue) Spawn(fn func() Callback) {
	go func() {
		if cb := fn(); cb != nil {
			q.Immediate <- cb
		}
	}()
}

// SpawnWait is Spawn for jobs that must complete before exit; results arrive
// on the Wait queue.
func (q *Queue) SpawnWait(fn func() Callback) {
	q.pending <- struct{}{}
	go func() {
		cb := fn()
		if cb == nil {
			cb = func(*editor.Editor) {}
		}
		q.Wait <- cb
	}()
}

// Done marks one must-finish job as handled by the loop.
func (q *Queue) Done() {
	select {
	case <-q.pending:
	default:
	}
}

// Idle reports whether no must-finish jobs are in flight.
func (q *Queue) Idle() bool {
	return len(q.pending) == 0
}
