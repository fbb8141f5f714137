// Package watch coordinates the server and client compilations of a
// development session. It tracks when both bundles are stable, serializes
// the work that follows a rebuild and holds HTTP requests back until the
// bundles can be served.
//
// All coordination state is owned by a single Loop goroutine. Signals that
// arrive on other goroutines (compiler events, finalizer results, HTTP
// admissions) are posted onto the loop and handled one at a time.
package watch

import (
	"context"
	"sync"
)

// Loop runs posted tasks one at a time, in post order, on the goroutine
// that called Run.
//
// Tasks are processed in turns: a turn runs every task that was queued when
// it began. A task posted while a turn is running therefore runs on a later
// turn, after everything that was already queued.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn. It is safe to call from any goroutine, including from a
// running task.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call posts fn and waits until it ran or ctx is done.
// It must not be called from a loop task.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		fn()
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for l.turn() > 0 {
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// turn runs the tasks queued at its start and reports how many ran.
func (l *Loop) turn() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}
