// Package compiler builds a target by running its configured build command
// and describing the files it produced.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.Compiler = (*Compiler)(nil)

// SourceWatcher starts a debounced watch over source paths.
type SourceWatcher interface {
	Watch(ctx context.Context, root string, paths []string, opts domain.WatchOptions, onChange func(paths []string)) error
}

// Options describe one target's build.
type Options struct {
	Target       domain.BuildTarget
	Root         string
	Command      []string
	Environment  map[string]string
	Stage        string
	StaticPrefix string
	// OutputDir is where the command writes its files.
	OutputDir string
	// WatchPaths are watched for changes, relative to Root.
	WatchPaths []string
	// Entries are the entrypoint names resolved in results.
	Entries []string
	// Ignored are added to the watch ignore patterns, typically the
	// output directory so builds do not trigger themselves.
	Ignored []string
	// Storage receives a copy of the output under "<target>/" after every
	// build. Nil when the command writes to the served directory itself.
	Storage ports.Storage
}

// Compiler runs one target's build command.
type Compiler struct {
	opts    Options
	logger  ports.Logger
	sources SourceWatcher

	mu        sync.Mutex
	observers []ports.LifecycleObserver

	// buildMu serializes builds of this target.
	buildMu sync.Mutex
}

// New creates a compiler for opts.
func New(opts Options, logger ports.Logger, sources SourceWatcher) (*Compiler, error) {
	if len(opts.Command) == 0 {
		return nil, zerr.With(domain.ErrMissingTargetCommand, "target", opts.Target.String())
	}
	if len(opts.WatchPaths) == 0 {
		opts.WatchPaths = []string{"."}
	}
	return &Compiler{
		opts:    opts,
		logger:  logger,
		sources: sources,
	}, nil
}

// Target returns the built target.
func (c *Compiler) Target() domain.BuildTarget {
	return c.opts.Target
}

// Observe registers observer for lifecycle events.
func (c *Compiler) Observe(observer ports.LifecycleObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, observer)
}

func (c *Compiler) notify(fn func(ports.LifecycleObserver)) {
	c.mu.Lock()
	observers := append([]ports.LifecycleObserver(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		fn(o)
	}
}

// Run builds once.
func (c *Compiler) Run(ctx context.Context) (*domain.CompiledResult, error) {
	c.notify(func(o ports.LifecycleObserver) { o.OnRun() })

	result, err := c.build(ctx)
	if err != nil {
		return nil, err
	}

	c.notify(func(o ports.LifecycleObserver) { o.OnDone(result) })
	return result, nil
}

// Watch builds now and after every debounced change of the watched paths
// until ctx is done. It returns once the source watch is set up.
func (c *Compiler) Watch(ctx context.Context, opts domain.WatchOptions, callback ports.WatchCallback) error {
	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	roots := make([]string, 0, len(c.opts.WatchPaths))
	for _, p := range c.opts.WatchPaths {
		if filepath.IsAbs(p) {
			roots = append(roots, p)
			continue
		}
		roots = append(roots, filepath.Join(c.opts.Root, p))
	}

	opts.Ignored = append(slices.Clone(opts.Ignored), c.opts.Ignored...)
	err := c.sources.Watch(ctx, c.opts.Root, roots, opts, func(paths []string) {
		c.logger.Debug(fmt.Sprintf("%d file(s) changed", len(paths)))
		c.notify(func(o ports.LifecycleObserver) { o.OnInvalid() })
		kick()
	})
	if err != nil {
		return zerr.With(err, "target", c.opts.Target.String())
	}

	kick()
	go c.watchLoop(ctx, trigger, callback)
	return nil
}

func (c *Compiler) watchLoop(ctx context.Context, trigger <-chan struct{}, callback ports.WatchCallback) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
		}

		c.notify(func(o ports.LifecycleObserver) { o.OnWatchRun() })

		result, err := c.build(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if callback != nil {
				callback(err, nil)
			}
			continue
		}

		c.notify(func(o ports.LifecycleObserver) { o.OnDone(result) })
		if callback != nil {
			callback(nil, result)
		}
	}
}

// build runs the command and collects its output. A command that ran but
// failed produces a result with errors; an error is returned only when the
// command could not run or its output could not be read.
func (c *Compiler) build(ctx context.Context) (*domain.CompiledResult, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	started := time.Now()

	if err := clearOutput(c.opts.OutputDir); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputCollectFailed.Error()), "dir", c.opts.OutputDir)
	}

	out := &lineWriter{logger: c.logger}
	runErr := runCommand(ctx, c.opts.Root, c.opts.Command, c.environment(), out)
	_ = out.Close()

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, startFailure(runErr, c.opts.Command)
	}

	files, err := listOutput(c.opts.OutputDir)
	if err != nil {
		return nil, err
	}

	lines := out.Lines()
	var errs []string
	if exitErr != nil {
		errs = append(slices.Clone(lines), exitErr.Error())
	}

	hash, err := hashOutput(files, errs)
	if err != nil {
		return nil, err
	}

	result := &domain.CompiledResult{
		Target:      c.opts.Target,
		Hash:        hash,
		Assets:      assets(files),
		Entrypoints: entrypointFiles(files, c.opts.Entries),
		Warnings:    warnings(lines),
		Errors:      errs,
		StartedAt:   started,
	}

	if c.opts.Storage != nil {
		if err := c.publish(files); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// publish replaces the target's files in storage. The manifest of the
// previous build is kept: it is only rewritten when the hash changes.
func (c *Compiler) publish(files []outputFile) error {
	prefix := c.opts.Target.String()
	manifestName := path.Join(prefix, domain.ManifestFileName)
	previous, readErr := c.opts.Storage.ReadFile(manifestName)

	if err := c.opts.Storage.RemoveAll(prefix); err != nil {
		return err
	}
	if readErr == nil {
		if err := c.opts.Storage.WriteFile(manifestName, previous); err != nil {
			return err
		}
	}
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputCollectFailed.Error()), "file", f.name)
		}
		if err := c.opts.Storage.WriteFile(path.Join(prefix, f.name), data); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) environment() []string {
	env := os.Environ()
	env = append(env,
		domain.EnvTarget+"="+c.opts.Target.String(),
		domain.EnvStage+"="+c.opts.Stage,
		domain.EnvOutputDir+"="+c.opts.OutputDir,
		domain.EnvStaticPrefix+"="+c.opts.StaticPrefix,
	)
	for k, v := range c.opts.Environment {
		env = append(env, k+"="+v)
	}
	return env
}
