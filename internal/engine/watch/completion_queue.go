package watch

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Finalizer is a task that runs after compilations settled, such as
// writing the manifest.
type Finalizer struct {
	Name string
	Run  func() error
}

// CompletionQueue runs finalizers one at a time in enqueue order.
//
// A finalizer runs on its own goroutine; its completion is posted back onto
// the loop, which then starts the next one. A failing finalizer is reported
// and treated as finished. When the last finalizer finished, onDrain is
// called once.
type CompletionQueue struct {
	loop    *Loop
	pending []Finalizer
	onDrain func()
	onDone  func(f Finalizer, err error)
}

// NewCompletionQueue creates an empty queue. onDone is called on the loop
// after every finalizer with its result; onDrain when the queue emptied.
func NewCompletionQueue(loop *Loop, onDone func(Finalizer, error), onDrain func()) *CompletionQueue {
	return &CompletionQueue{
		loop:    loop,
		onDrain: onDrain,
		onDone:  onDone,
	}
}

// Enqueue appends the task under name. It starts the task immediately when
// the queue was empty. Must be called on the loop.
func (q *CompletionQueue) Enqueue(name string, task func() error) {
	f := Finalizer{Name: name, Run: task}
	q.pending = append(q.pending, f)
	if len(q.pending) == 1 {
		q.execute(f)
	}
}

// Len returns the number of finalizers running or waiting.
func (q *CompletionQueue) Len() int {
	return len(q.pending)
}

func (q *CompletionQueue) execute(f Finalizer) {
	go func() {
		err := runFinalizer(f)
		q.loop.Post(func() {
			q.finish(f, err)
		})
	}()
}

func (q *CompletionQueue) finish(f Finalizer, err error) {
	q.pending = q.pending[1:]

	if q.onDone != nil {
		q.onDone(f, err)
	}

	if len(q.pending) > 0 {
		q.execute(q.pending[0])
		return
	}

	if q.onDrain != nil {
		q.onDrain()
	}
}

func runFinalizer(f Finalizer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.New(fmt.Sprintf("finalizer panicked: %v", r)), "finalizer", f.Name)
		}
	}()
	if f.Run == nil {
		return nil
	}
	return f.Run()
}
