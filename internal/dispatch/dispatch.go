// Package dispatch hands work to the single execution context that owns UI
// state. Health store callbacks arrive on arbitrary goroutines; everything
// that touches labels, the session state or the history list goes through a
// Dispatcher first.
package dispatch

import (
	"sync"
	"time"
)

// Dispatcher runs functions on its owner context, one at a time, in the
// order they were dispatched
type Dispatcher interface {
	Dispatch(fn func())
	DispatchAfter(d time.Duration, fn func())
}

// Loop is a Dispatcher backed by one goroutine draining an unbounded queue.
// It is the owner context for headless runs.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts a loop goroutine
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Dispatch queues fn. Calls after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// DispatchAfter queues fn once d has elapsed
func (l *Loop) DispatchAfter(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Dispatch(fn) })
}

// Done is closed once the loop has stopped and run its last queued function
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops accepting work, runs what is already queued and waits for the
// loop goroutine to exit. Close must not be called from inside the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.cond.Signal()
	l.mu.Unlock()
	<-l.done
}
