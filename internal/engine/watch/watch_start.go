package watch

import (
	"context"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

// watchStarter starts watching one compiler. Every error the compiler
// reports through its watch callback is passed to fail, including errors
// the lifecycle hooks never see.
type watchStarter interface {
	startWatch(ctx context.Context, opts domain.WatchOptions, fail func(error)) error
}

// directWatch is used for compilers whose watch results have no other
// consumer.
type directWatch struct {
	compiler ports.Compiler
}

func (d directWatch) startWatch(ctx context.Context, opts domain.WatchOptions, fail func(error)) error {
	return d.compiler.Watch(ctx, opts, func(err error, _ *domain.CompiledResult) {
		if err != nil {
			fail(err)
		}
	})
}

// surfacingWatch keeps a downstream consumer of the compiler's watch
// callback and hands it every (err, result) pair unchanged after surfacing
// the error.
type surfacingWatch struct {
	compiler   ports.Compiler
	downstream ports.WatchCallback
}

func (s surfacingWatch) startWatch(ctx context.Context, opts domain.WatchOptions, fail func(error)) error {
	return s.compiler.Watch(ctx, opts, func(err error, result *domain.CompiledResult) {
		if err != nil {
			fail(err)
		}
		if s.downstream != nil {
			s.downstream(err, result)
		}
	})
}
