// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/gourmet/internal/core/domain"
)

//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks

// LifecycleObserver receives a compiler's lifecycle events.
// Methods may be called from any goroutine.
type LifecycleObserver interface {
	// OnInvalid is called when a watched source changed and a rebuild is due.
	OnInvalid()
	// OnRun is called before a one-shot build starts.
	OnRun()
	// OnWatchRun is called before a build started by the watcher.
	OnWatchRun()
	// OnDone is called with the result of every finished build.
	OnDone(result *domain.CompiledResult)
}

// WatchCallback receives every watch result and every compiler error.
// err and result are never both set.
type WatchCallback func(err error, result *domain.CompiledResult)

// Compiler builds one target.
type Compiler interface {
	// Target returns the target this compiler builds.
	Target() domain.BuildTarget

	// Observe registers an observer for lifecycle events.
	Observe(observer LifecycleObserver)

	// Run builds once and returns the result.
	Run(ctx context.Context) (*domain.CompiledResult, error)

	// Watch builds immediately and again whenever the sources change, until
	// ctx is done. It returns once watching has been set up.
	Watch(ctx context.Context, opts domain.WatchOptions, callback WatchCallback) error
}
