// Package httpserver serves compiled assets and rendered pages.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-metrics"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

const (
	// StatusPath reports the watch state in development.
	StatusPath = "/__gourmet/status"
	// MetricsPath reports the in-memory metrics.
	MetricsPath = "/__gourmet/metrics"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Mount is the path prefix the renderer answers under.
	Mount string
	// StaticPrefix is the URL prefix client assets are served under.
	StaticPrefix string
	// Static enables serving client assets.
	Static bool
	// Defaults holds the render arguments applied before the args header.
	Entrypoint string
	Siloed     bool
	Params     map[string]any
}

// OptionsFromConfig derives Options from the server configuration.
func OptionsFromConfig(cfg *domain.Config) Options {
	return Options{
		Mount:        cfg.Server.Mount,
		StaticPrefix: cfg.StaticPrefix,
		Static:       cfg.Server.Static,
		Entrypoint:   cfg.Server.Entrypoint,
		Siloed:       cfg.Server.Siloed,
		Params:       cfg.Server.Params,
	}
}

// Dev holds the development hooks. The zero value disables them.
type Dev struct {
	// Gate holds requests until the bundles are servable.
	Gate func(next http.Handler) http.Handler
	// Status returns a JSON-encodable view of the watch state.
	Status func(ctx context.Context) (any, error)
}

// Server is the page and asset server.
type Server struct {
	opts     Options
	logger   ports.Logger
	renderer ports.PageRenderer
	assets   ports.Storage
	dev      Dev
	sink     *metrics.InmemSink
}

// New creates a Server. assets holds the "client/" output; sink may be nil.
func New(opts Options, logger ports.Logger, renderer ports.PageRenderer, assets ports.Storage, dev Dev, sink *metrics.InmemSink) *Server {
	if opts.Mount == "" {
		opts.Mount = domain.DefaultMount
	}
	if opts.StaticPrefix == "" {
		opts.StaticPrefix = domain.DefaultStaticPrefix
	}
	if opts.Entrypoint == "" {
		opts.Entrypoint = domain.DefaultEntrypoint
	}
	return &Server{
		opts:     opts,
		logger:   logger,
		renderer: renderer,
		assets:   assets,
		dev:      dev,
		sink:     sink,
	}
}

// Handler returns the full middleware stack.
func (s *Server) Handler() http.Handler {
	var pages http.Handler = http.HandlerFunc(s.servePages)
	if s.dev.Gate != nil {
		pages = s.dev.Gate(pages)
	}

	mux := http.NewServeMux()
	if s.dev.Status != nil {
		mux.HandleFunc("GET "+StatusPath, s.serveStatus)
	}
	if s.sink != nil {
		mux.HandleFunc("GET "+MetricsPath, s.serveMetrics)
	}
	mux.Handle("/", pages)

	return s.accessLog(mux)
}

// Listen opens a TCP listener on addr.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServerListenFailed.Error()), "addr", addr)
	}
	return ln, nil
}

// Serve serves h on ln and shuts down gracefully once ctx is done.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.With(zerr.Wrap(err, "server stopped unexpectedly"), "addr", ln.Addr().String())
	}
	<-stopped
	return nil
}
