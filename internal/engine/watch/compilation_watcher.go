package watch

import (
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.LifecycleObserver = (*CompilationWatcher)(nil)

// CompilationWatcher turns one compiler's lifecycle events into exactly one
// start and one completion notification per compilation cycle.
//
// The event methods may be called from any goroutine; they post onto the
// loop, where the compiling flag lives.
type CompilationWatcher struct {
	target     domain.BuildTarget
	loop       *Loop
	compiling  bool
	settling   int  // completions posted but not yet handled
	restart    bool // a start arrived while a completion was settling
	onStart    func()
	onComplete func(err error, result *domain.CompiledResult)
}

// NewCompilationWatcher creates a watcher for target. onStart and
// onComplete run on the loop.
func NewCompilationWatcher(
	target domain.BuildTarget,
	loop *Loop,
	onStart func(),
	onComplete func(err error, result *domain.CompiledResult),
) *CompilationWatcher {
	return &CompilationWatcher{
		target:     target,
		loop:       loop,
		onStart:    onStart,
		onComplete: onComplete,
	}
}

// Target returns the observed build target.
func (w *CompilationWatcher) Target() domain.BuildTarget {
	return w.target
}

// OnInvalid marks the start of a cycle.
func (w *CompilationWatcher) OnInvalid() { w.loop.Post(w.start) }

// OnRun marks the start of a cycle.
func (w *CompilationWatcher) OnRun() { w.loop.Post(w.start) }

// OnWatchRun marks the start of a cycle.
func (w *CompilationWatcher) OnWatchRun() { w.loop.Post(w.start) }

// OnDone completes the cycle with result. The completion is settled one
// loop turn after the signal arrived, so that signals of both compilers
// arriving together are all seen before either completion is handled.
func (w *CompilationWatcher) OnDone(result *domain.CompiledResult) {
	w.loop.Post(func() {
		w.settling++
		w.loop.Post(func() {
			w.complete(nil, result)
		})
	})
}

// Fail completes the cycle with err. Errors surfaced outside the lifecycle
// hooks come in here, whether or not a cycle was started.
func (w *CompilationWatcher) Fail(err error) {
	if err == nil {
		return
	}
	w.loop.Post(func() {
		w.settling++
		w.loop.Post(func() {
			w.complete(err, nil)
		})
	})
}

// Compiling reports whether a cycle is in progress. Must be called on the
// loop.
func (w *CompilationWatcher) Compiling() bool {
	return w.compiling
}

func (w *CompilationWatcher) start() {
	if w.compiling {
		// The running cycle is already done; this signal opens the next one.
		if w.settling > 0 {
			w.restart = true
		}
		return
	}
	w.compiling = true
	if w.onStart != nil {
		w.onStart()
	}
}

func (w *CompilationWatcher) complete(err error, result *domain.CompiledResult) {
	w.settling--
	restart := w.restart
	w.restart = false

	switch {
	case err != nil:
	case result == nil:
		return
	case !w.compiling:
		return
	}

	w.compiling = false
	if w.onComplete != nil {
		w.onComplete(err, result)
	}
	if restart {
		w.start()
	}
}
