// Package app implements the application layer for gourmet.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-metrics"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/gourmet/internal/adapters/compiler"
	"go.trai.ch/gourmet/internal/adapters/config"
	"go.trai.ch/gourmet/internal/adapters/hot"
	"go.trai.ch/gourmet/internal/adapters/httpserver"
	"go.trai.ch/gourmet/internal/adapters/logger"
	"go.trai.ch/gourmet/internal/adapters/manifest"
	"go.trai.ch/gourmet/internal/adapters/render"
	"go.trai.ch/gourmet/internal/adapters/storage"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
	"go.trai.ch/gourmet/internal/engine/watch"
)

// logSettings is implemented by loggers whose output format can change.
type logSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	compilers    *compiler.Factory
	hot          *hot.Server
	tracer       ports.Tracer
	sink         *metrics.InmemSink

	httpListener net.Listener
	hotListener  net.Listener
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	compilers *compiler.Factory,
	hotServer *hot.Server,
	tracer ports.Tracer,
	sink *metrics.InmemSink,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		compilers:    compilers,
		hot:          hotServer,
		tracer:       tracer,
		sink:         sink,
	}
}

// WithListeners makes Serve use the given listeners instead of binding the
// configured addresses. This is primarily used for testing.
func (a *App) WithListeners(httpLn, hotLn net.Listener) *App {
	a.httpListener = httpLn
	a.hotListener = hotLn
	return a
}

// ConfigureLogging switches the logger between pretty and JSON output and
// toggles debug messages.
func (a *App) ConfigureLogging(jsonOutput, verbose bool) {
	if s, ok := a.logger.(logSettings); ok {
		s.SetJSON(jsonOutput)
		s.SetVerbose(verbose)
	}
}

// Options configures Serve, Build and Clean.
type Options struct {
	// Dir is where the search for gourmet.yaml starts.
	Dir string
	// Overrides take precedence over the configuration file.
	Overrides config.Overrides
	// NoWatch serves previously built output without compiling.
	NoWatch bool
}

func (a *App) loadConfig(opts Options) (*domain.Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	opts.Overrides.Apply(cfg)
	return cfg, nil
}

// Serve compiles both targets in watch mode and serves the pages until ctx
// is done. Requests are held while a compilation or manifest write is in
// progress.
func (a *App) Serve(ctx context.Context, opts Options) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.NoWatch {
		return a.serveBuilt(ctx, cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var store ports.Storage
	var compilerStore ports.Storage
	if cfg.Watch.FS {
		store = storage.NewDisk(cfg.OutputPath())
	} else {
		mem := storage.NewMemory()
		store, compilerStore = mem, mem
	}

	server, err := a.compilers.New(cfg, domain.TargetServer, compilerStore)
	if err != nil {
		return err
	}
	client, err := a.compilers.New(cfg, domain.TargetClient, compilerStore)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg, store)
	if err != nil {
		return err
	}

	manifests := manifest.NewWriter(store, cfg.Stage, cfg.StaticPrefix)
	if shell, ok := renderer.(*render.Shell); ok {
		manifests.OnWrite(shell.ManifestWritten)
	}

	orch := watch.New(watch.Deps{
		Logger:     a.logger,
		Manifest:   manifests,
		Invalidate: renderer.CleanCache,
		Hot:        a.hot,
		Tracer:     a.tracer,
		Metrics:    a.sink,
	})

	httpLn, hotLn, err := a.listeners(cfg)
	if err != nil {
		return err
	}

	web := httpserver.New(httpserver.OptionsFromConfig(cfg), a.logger, renderer, store, httpserver.Dev{
		Gate: orch.Middleware,
		Status: func(ctx context.Context) (any, error) {
			return orch.Snapshot(ctx)
		},
	}, a.sink)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return orch.Run(ctx)
	})

	if err := orch.Start(ctx, server, client, cfg.Watch.Options()); err != nil {
		cancel()
		_ = closeAll(httpLn, hotLn)
		return errors.Join(err, g.Wait())
	}

	a.logger.Info(fmt.Sprintf("Server is listening on http://%s", httpLn.Addr()))
	g.Go(func() error {
		return httpserver.Serve(ctx, hotLn, a.hot.Handler())
	})
	g.Go(func() error {
		return httpserver.Serve(ctx, httpLn, web.Handler())
	})

	return g.Wait()
}

// serveBuilt serves the output of a previous build from disk.
func (a *App) serveBuilt(ctx context.Context, cfg *domain.Config) error {
	store := storage.NewDisk(cfg.OutputPath())
	renderer, err := newRenderer(cfg, store)
	if err != nil {
		return err
	}

	ln := a.httpListener
	if ln == nil {
		ln, err = httpserver.Listen(hostPort(cfg.Server.Host, cfg.Server.Port))
		if err != nil {
			return err
		}
	}

	a.logger.Info(fmt.Sprintf("Server is listening on http://%s", ln.Addr()))
	web := httpserver.New(httpserver.OptionsFromConfig(cfg), a.logger, renderer, store, httpserver.Dev{}, a.sink)
	return httpserver.Serve(ctx, ln, web.Handler())
}

func (a *App) listeners(cfg *domain.Config) (net.Listener, net.Listener, error) {
	httpLn := a.httpListener
	if httpLn == nil {
		ln, err := httpserver.Listen(hostPort(cfg.Server.Host, cfg.Server.Port))
		if err != nil {
			return nil, nil, err
		}
		httpLn = ln
	}

	hotLn := a.hotListener
	if hotLn == nil {
		ln, err := httpserver.Listen(hostPort(cfg.Server.Host, cfg.Watch.Port))
		if err != nil {
			_ = httpLn.Close()
			return nil, nil, err
		}
		hotLn = ln
	}
	return httpLn, hotLn, nil
}

func closeAll(listeners ...net.Listener) error {
	var errs error
	for _, ln := range listeners {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func newRenderer(cfg *domain.Config, store ports.Storage) (ports.PageRenderer, error) {
	if cfg.Server.RenderURL != "" {
		return render.NewProxy(cfg.Server.RenderURL)
	}
	return render.NewShell(store, cfg.StaticPrefix), nil
}

// Build compiles both targets once, concurrently, and writes their
// manifests to the output directory.
func (a *App) Build(ctx context.Context, opts Options) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results = make(map[domain.BuildTarget]*domain.CompiledResult, len(domain.Targets))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range domain.Targets {
		c, err := a.compilers.New(cfg, target, nil)
		if err != nil {
			return err
		}
		g.Go(func() error {
			_, span := a.tracer.Start(gctx, "compile "+target.String(), ports.WithAttribute("target", target.String()))
			defer span.End()

			result, err := c.Run(gctx)
			if err != nil {
				span.RecordError(err)
				return zerr.With(err, "target", target.String())
			}
			mu.Lock()
			results[target] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	failed := false
	for _, target := range domain.Targets {
		if report(logger.Prefixed(a.logger, target.String()), results[target]) {
			failed = true
		}
	}
	if failed {
		return domain.ErrBuildExecutionFailed
	}

	store := storage.NewDisk(cfg.OutputPath())
	if err := manifest.NewWriter(store, cfg.Stage, cfg.StaticPrefix).WriteManifest(ctx, results); err != nil {
		return err
	}

	a.logger.Success(fmt.Sprintf("Build finished, output written to %s", cfg.OutputPath()))
	return nil
}

// report logs a one-shot build result and reports whether it failed.
func report(log ports.Logger, result *domain.CompiledResult) bool {
	for _, w := range result.Warnings {
		log.Warn(w)
	}
	if result.HasErrors() {
		for _, e := range result.Errors {
			log.Error(zerr.New(e))
		}
		return true
	}
	log.Info(fmt.Sprintf("Hash: %s, %d assets, %d bytes, %s",
		result.ShortHash(), len(result.Assets), result.TotalSize(), result.Duration.Round(time.Millisecond)))
	return false
}

// Clean removes the output directory.
func (a *App) Clean(_ context.Context, opts Options) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	out := cfg.OutputPath()
	a.logger.Info(fmt.Sprintf("removing %s...", out))
	if err := os.RemoveAll(out); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", out)
	}
	a.logger.Info(fmt.Sprintf("removed %s", out))
	return nil
}
