package watcher

import (
	"context"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

// Sources starts debounced watches over source trees.
type Sources struct {
	logger ports.Logger
}

// NewSources creates a Sources reporting watcher problems to logger.
func NewSources(logger ports.Logger) *Sources {
	return &Sources{logger: logger}
}

// Watch watches paths below root and calls onChange with the changed
// paths of every burst, once opts.AggregateTimeout passed without further
// changes. A positive opts.Poll polls at that interval instead of using
// file system notifications. Watching ends when ctx is done.
func (s *Sources) Watch(
	ctx context.Context,
	root string,
	paths []string,
	opts domain.WatchOptions,
	onChange func(paths []string),
) error {
	opts = opts.Normalize()

	ignore, err := NewIgnoreMatcher(root, opts.Ignored)
	if err != nil {
		return err
	}

	var w ports.Watcher
	if opts.Poll > 0 {
		w = NewPoller(opts.Poll, ignore)
	} else {
		fw, err := NewWatcher(ignore, s.logger)
		if err != nil {
			return zerr.Wrap(err, domain.ErrCompilerWatchFailed.Error())
		}
		w = fw
	}

	if err := w.Start(ctx, paths...); err != nil {
		_ = w.Stop()
		return zerr.Wrap(err, domain.ErrCompilerWatchFailed.Error())
	}

	d := NewDebouncer(opts.AggregateTimeout, onChange)

	go func() {
		for event := range w.Events() {
			d.Add(event.Path)
		}
	}()

	go func() {
		<-ctx.Done()
		d.Stop()
		_ = w.Stop()
	}()

	return nil
}
