package watch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-metrics"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

// ReadyMessage is logged every time the bundles became servable.
const ReadyMessage = ">>> Bundles are ready to be served!"

// Deps are the collaborators of an Orchestrator. Only Logger and Manifest
// are required.
type Deps struct {
	Logger   ports.Logger
	Manifest ports.ManifestWriter
	// Invalidate drops the server-side render cache. Called after a server
	// compilation produced a new hash without errors.
	Invalidate func()
	Hot        ports.HotNotifier
	Tracer     ports.Tracer
	Metrics    metrics.MetricSink
}

// Orchestrator coordinates the server and client compilations and gates
// HTTP requests until both bundles and their manifests are in place.
//
// Everything but Start, Run, Admit, Middleware and Snapshot runs on the
// loop goroutine.
type Orchestrator struct {
	loop       *Loop
	logger     ports.Logger
	manifest   ports.ManifestWriter
	invalidate func()
	hot        ports.HotNotifier
	tracer     ports.Tracer
	sink       metrics.MetricSink

	ctx      context.Context
	watchers map[domain.BuildTarget]*CompilationWatcher
	states   map[domain.BuildTarget]*domain.CompilationState
	spans    map[domain.BuildTarget]ports.Span
	busy     *BusyTracker
	queue    *CompletionQueue
	gate     *RequestGate
}

// New creates an orchestrator. Nothing happens until Start and Run are
// called.
func New(deps Deps) *Orchestrator {
	o := &Orchestrator{
		loop:       NewLoop(),
		logger:     deps.Logger,
		manifest:   deps.Manifest,
		invalidate: deps.Invalidate,
		hot:        deps.Hot,
		tracer:     deps.Tracer,
		sink:       deps.Metrics,
		ctx:        context.Background(),
		watchers:   make(map[domain.BuildTarget]*CompilationWatcher, len(domain.Targets)),
		states:     make(map[domain.BuildTarget]*domain.CompilationState, len(domain.Targets)),
		spans:      make(map[domain.BuildTarget]ports.Span, len(domain.Targets)),
		busy:       NewBusyTracker(),
	}
	if o.tracer == nil {
		o.tracer = noopTracer{}
	}
	if o.sink == nil {
		o.sink = &metrics.BlackholeSink{}
	}

	o.queue = NewCompletionQueue(o.loop, o.onFinalized, o.ready)
	o.gate = NewRequestGate(o.isBusy)

	for _, t := range domain.Targets {
		o.states[t] = &domain.CompilationState{}
		o.watchers[t] = NewCompilationWatcher(t, o.loop,
			func() { o.onStart(t) },
			func(err error, result *domain.CompiledResult) { o.onComplete(t, err, result) },
		)
	}
	return o
}

// Start registers the lifecycle observers and starts watching both
// compilers. Watching stops when ctx is done.
//
// A failure to start either watch is an initialization error: it is logged
// once and returned, and the orchestrator must not be used to serve.
func (o *Orchestrator) Start(ctx context.Context, server, client ports.Compiler, opts domain.WatchOptions) error {
	o.ctx = ctx
	opts = opts.Normalize()

	server.Observe(o.watchers[domain.TargetServer])
	client.Observe(o.watchers[domain.TargetClient])

	var clientDownstream ports.WatchCallback
	if o.hot != nil {
		clientDownstream = o.hot.OnClientResult
	}

	starters := []struct {
		target  domain.BuildTarget
		starter watchStarter
	}{
		{domain.TargetServer, directWatch{compiler: server}},
		{domain.TargetClient, surfacingWatch{compiler: client, downstream: clientDownstream}},
	}

	for _, s := range starters {
		if err := s.starter.startWatch(ctx, opts, o.watchers[s.target].Fail); err != nil {
			err = errors.Join(domain.ErrWatchInitFailed, zerr.With(err, "target", s.target.String()))
			o.logger.Error(err)
			return err
		}
	}
	return nil
}

// Run processes coordination tasks until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	err := o.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Admit passes dispatch through the request gate. dispatch is called on the
// loop goroutine, either right away or when the gate is flushed.
func (o *Orchestrator) Admit(dispatch func()) {
	o.loop.Post(func() {
		if o.gate.Admit(dispatch) {
			o.sink.IncrCounter(gateQueuedKey, 1)
			o.sink.SetGauge(gatePendingKey, float32(o.gate.Len()))
		}
	})
}

// Middleware holds every request until the bundles are stable and then
// hands it to next. Requests are released in arrival order. A request
// whose context ends while it is held is dropped.
func (o *Orchestrator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		released := make(chan struct{})
		o.Admit(func() { close(released) })

		select {
		case <-released:
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
		}
	})
}

// Snapshot is a point-in-time copy of the coordination state.
type Snapshot struct {
	Targets           map[domain.BuildTarget]TargetSnapshot `json:"targets"`
	PendingFinalizers int                                   `json:"pendingFinalizers"`
	PendingRequests   int                                   `json:"pendingRequests"`
	Stable            bool                                  `json:"stable"`
}

// TargetSnapshot describes one target in a Snapshot.
type TargetSnapshot struct {
	Compiling bool     `json:"compiling"`
	Busy      bool     `json:"busy"`
	Hash      string   `json:"hash,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Snapshot returns the current state. The loop must be running.
func (o *Orchestrator) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := o.loop.Call(ctx, func() {
		s = o.snapshot()
	})
	return s, err
}

// Stable reports whether no compilation, finalizer or held request is
// pending. The loop must be running.
func (o *Orchestrator) Stable(ctx context.Context) bool {
	s, err := o.Snapshot(ctx)
	return err == nil && s.Stable
}

func (o *Orchestrator) snapshot() Snapshot {
	s := Snapshot{
		Targets:           make(map[domain.BuildTarget]TargetSnapshot, len(o.states)),
		PendingFinalizers: o.queue.Len(),
		PendingRequests:   o.gate.Len(),
		Stable:            !o.isBusy() && o.gate.Len() == 0,
	}
	for t, st := range o.states {
		ts := TargetSnapshot{
			Compiling: st.Compiling,
			Busy:      o.busy.Busy(t),
			Hash:      st.LastHash,
		}
		if st.LastStats != nil {
			ts.Errors = append([]string(nil), st.LastStats.Errors...)
		}
		s.Targets[t] = ts
	}
	return s
}

func (o *Orchestrator) isBusy() bool {
	return o.busy.Compiling() || o.queue.Len() > 0
}

func (o *Orchestrator) onStart(t domain.BuildTarget) {
	o.states[t].Compiling = true
	o.logger.Info(prefix(t, "Compiling..."))

	_, span := o.tracer.Start(o.ctx, "compile "+t.String(), ports.WithAttribute("target", t.String()))
	o.spans[t] = span

	o.busy.SetBusy(t, true)

	if t == domain.TargetClient && o.hot != nil {
		o.hot.Compiling()
	}
}

func (o *Orchestrator) onComplete(t domain.BuildTarget, err error, result *domain.CompiledResult) {
	st := o.states[t]
	st.Compiling = false

	outcome := o.report(t, st, err, result)
	if outcome == resultOK && t == domain.TargetServer && !result.HasErrors() && o.invalidate != nil {
		o.invalidate()
	}

	o.sink.IncrCounterWithLabels(compileCountKey, 1, []metrics.Label{targetLabel(t), resultLabel(outcome)})

	if span, ok := o.spans[t]; ok {
		if err != nil {
			span.RecordError(err)
		}
		if result != nil {
			span.SetAttribute("hash", result.Hash)
		}
		span.SetAttribute("result", outcome)
		span.End()
		delete(o.spans, t)
	}

	if o.busy.SetBusy(t, false) {
		o.onIdle()
	}
}

// report logs the outcome of a compilation and records a new hash. It
// returns resultOK only when the hash changed.
func (o *Orchestrator) report(
	t domain.BuildTarget,
	st *domain.CompilationState,
	err error,
	result *domain.CompiledResult,
) string {
	if err != nil {
		o.logger.Error(zerr.With(zerr.Wrap(err, prefix(t, "compilation failed")), "target", t.String()))
		return resultError
	}

	if result.Hash == st.LastHash {
		o.logger.Info(prefix(t, "Compilation hash didn't change, ignoring..."))
		return resultUnchanged
	}

	st.LastHash = result.Hash
	st.LastStats = result
	st.Changed = true

	for _, w := range result.Warnings {
		o.logger.Warn(prefix(t, w))
	}
	for _, e := range result.Errors {
		o.logger.Error(zerr.With(zerr.New(prefix(t, e)), "hash", result.ShortHash()))
	}

	o.logger.Info(prefix(t, fmt.Sprintf("Hash: %s, %d assets, %d bytes, %s",
		result.ShortHash(), len(result.Assets), result.TotalSize(), result.Duration.Round(time.Millisecond))))
	return resultOK
}

func (o *Orchestrator) onIdle() {
	changed := false
	for _, st := range o.states {
		if st.Changed {
			changed = true
			st.Changed = false
		}
	}

	if !changed {
		if o.queue.Len() == 0 {
			o.ready()
		}
		return
	}

	stats := map[domain.BuildTarget]*domain.CompiledResult{
		domain.TargetServer: o.states[domain.TargetServer].LastStats,
		domain.TargetClient: o.states[domain.TargetClient].LastStats,
	}
	ctx := o.ctx
	o.queue.Enqueue("write manifest", func() error {
		ctx, span := o.tracer.Start(ctx, "finalize", ports.WithAttribute("finalizer", "write manifest"))
		defer span.End()

		if err := o.manifest.WriteManifest(ctx, stats); err != nil {
			span.RecordError(err)
			return err
		}
		return nil
	})
}

func (o *Orchestrator) onFinalized(f Finalizer, err error) {
	if err != nil {
		o.logger.Error(zerr.With(zerr.Wrap(err, "finalizer failed"), "finalizer", f.Name))
		o.sink.IncrCounterWithLabels(finalizeCountKey, 1, []metrics.Label{resultLabel(resultError)})
		return
	}
	o.sink.IncrCounterWithLabels(finalizeCountKey, 1, []metrics.Label{resultLabel(resultOK)})
}

// ready releases held requests once nothing is pending.
func (o *Orchestrator) ready() {
	if o.isBusy() {
		return
	}

	o.logger.Success(ReadyMessage)
	if o.hot != nil {
		o.hot.Ready(o.states[domain.TargetClient].LastHash)
	}

	n := o.gate.Flush()
	o.sink.IncrCounter(gateFlushedKey, float32(n))
	o.sink.SetGauge(gatePendingKey, float32(o.gate.Len()))
}

func prefix(t domain.BuildTarget, msg string) string {
	return "[" + t.String() + "] " + msg
}
