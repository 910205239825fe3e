package travspan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/travspan/internal/runtime"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// Engine is the run controller: the high-level entry point of the library.
// It wraps the internal runtime, forwards step events to sinks and hooks, and logs.
// An Engine is not safe for concurrent use; pkg/session serializes access per run.
type Engine struct {
	graph        ports.GraphProvider
	runtime      *runtime.Engine
	cfg          domain.Config
	presentation ports.PresentationSink
	results      ports.ResultsSink
	hooks        domain.LifecycleHooks
	heuristic    domain.Heuristic
	logger       *slog.Logger
	now          func() time.Time
	Name         string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls chain the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPresentationSink receives every vertex and edge marking.
func WithPresentationSink(s ports.PresentationSink) Option {
	return func(e *Engine) {
		e.presentation = s
	}
}

// WithResultsSink receives tree growth, found paths and termination.
func WithResultsSink(s ports.ResultsSink) Option {
	return func(e *Engine) {
		e.results = s
	}
}

// WithHeuristic replaces the straight-line A* heuristic.
func WithHeuristic(h domain.Heuristic) Option {
	return func(e *Engine) {
		e.heuristic = h
	}
}

// WithName labels the engine in logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New creates an engine over graph. No run is active until Start.
func New(graph ports.GraphProvider, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: graph provider is required", domain.ErrInvalidConfiguration)
	}
	eng := &Engine{graph: graph, now: time.Now}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("name", eng.Name)
	}
	return eng, nil
}

// Graph returns the provider the engine runs on.
func (e *Engine) Graph() ports.GraphProvider { return e.graph }

// Config returns the configuration of the current (or last) run.
func (e *Engine) Config() domain.Config { return e.cfg }

// Start validates cfg and positions a fresh run at START, replacing any previous run.
// On error the previous run, if any, is left untouched.
func (e *Engine) Start(ctx context.Context, cfg domain.Config) error {
	var opts []runtime.Option
	if e.heuristic != nil {
		opts = append(opts, runtime.WithHeuristic(e.heuristic))
	}
	rt, err := runtime.New(e.graph, cfg, opts...)
	if err != nil {
		e.logger.Warn("rejected run configuration", "algorithm", cfg.Algorithm, "error", err)
		return err
	}

	e.runtime = rt
	e.cfg = rt.Config()
	e.logger.Info("run started",
		"algorithm", e.cfg.Algorithm,
		"mode", e.cfg.Mode,
		"start", e.cfg.Start,
		"end", e.cfg.End,
	)
	if e.hooks.OnStart != nil {
		e.hooks.OnStart(ctx, &domain.RunEvent{Run: e.Name, Timestamp: e.now(), Config: e.cfg})
	}
	return nil
}

// Reset discards the current run. Start must be called again before stepping.
func (e *Engine) Reset() {
	e.runtime = nil
}

// Restart discards the current run and starts a new one with the same configuration.
// With the same seed the new run replays the old one step for step.
func (e *Engine) Restart(ctx context.Context) error {
	if e.cfg.Algorithm == "" {
		return domain.ErrNotStarted
	}
	e.Reset()
	return e.Start(ctx, e.cfg)
}

// IsDone reports whether the current run reached DONE. It is false when no run is active.
func (e *Engine) IsDone() bool {
	return e.runtime != nil && e.runtime.Done()
}

// Step executes exactly one transition and returns the name of the step that ran.
func (e *Engine) Step(ctx context.Context) (domain.StepName, error) {
	if e.runtime == nil {
		return "", domain.ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	step, events, err := e.runtime.Step()
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyTerminated) {
			e.logger.Error("step failed", "step", step, "error", err)
		}
		return step, err
	}

	ports.Dispatch(events, e.presentation, e.results)

	next := e.runtime.Current()
	e.logger.Debug("step", "step", step, "next", next, "msg", e.runtime.Message())
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			Run:          e.Name,
			Timestamp:    e.now(),
			Algorithm:    e.cfg.Algorithm,
			Step:         step,
			Next:         next,
			Message:      e.runtime.Message(),
			Count:        e.runtime.Counters().Steps,
			FrontierSize: e.runtime.FrontierLen(),
			Events:       events,
		})
	}

	if e.runtime.Done() {
		e.finish(ctx)
	}
	return step, nil
}

func (e *Engine) finish(ctx context.Context) {
	res := e.runtime.Result()
	attrs := []any{
		"algorithm", e.cfg.Algorithm,
		"reason", res.Reason,
		"steps", res.Counters.Steps,
		"tree_vertices", res.Counters.TreeVertices,
		"total_cost", res.TotalCost,
	}
	if res.Path != nil {
		attrs = append(attrs, "path_hops", res.Path.Hops, "path_cost", res.Path.Cost)
	}
	e.logger.Info("run finished", attrs...)

	if e.hooks.OnFinish != nil {
		e.hooks.OnFinish(ctx, &domain.RunEvent{
			Run:       e.Name,
			Timestamp: e.now(),
			Config:    e.cfg,
			Reason:    res.Reason,
			Steps:     res.Counters.Steps,
		})
	}
}

// Run steps until DONE, until maxSteps steps were executed (0 means no limit),
// or until ctx is cancelled. It returns the number of steps executed.
func (e *Engine) Run(ctx context.Context, maxSteps int) (int, error) {
	_, n, err := e.RunUntil(ctx, nil, maxSteps)
	return n, err
}

// Iterate steps until one iteration of the outer search loop completes or the run is done.
func (e *Engine) Iterate(ctx context.Context) (int, error) {
	_, n, err := e.RunUntil(ctx, BreakOnIterationEnd(), 0)
	return n, err
}

// RunUntil steps until bp matches the position after a step, the run is done,
// maxSteps steps were executed (0 means no limit), or ctx is cancelled.
// It reports whether the breakpoint matched.
func (e *Engine) RunUntil(ctx context.Context, bp Breakpoint, maxSteps int) (bool, int, error) {
	if e.runtime == nil {
		return false, 0, domain.ErrNotStarted
	}
	n := 0
	for !e.runtime.Done() && (maxSteps <= 0 || n < maxSteps) {
		step, err := e.Step(ctx)
		if err != nil {
			return false, n, err
		}
		n++
		if bp != nil && bp(e.position(step)) {
			return true, n, nil
		}
	}
	return false, n, nil
}

func (e *Engine) position(step domain.StepName) Position {
	v, edge := e.runtime.Focus()
	return Position{Step: step, Next: e.runtime.Current(), Vertex: v, Edge: edge}
}

// Snapshot returns a read-only view of the current run.
func (e *Engine) Snapshot() (domain.Snapshot, error) {
	if e.runtime == nil {
		return domain.Snapshot{}, domain.ErrNotStarted
	}
	s := e.runtime.Snapshot()
	s.UpdatedAt = e.now()
	return s, nil
}

// Result returns what the current run produced. It is final once IsDone is true.
func (e *Engine) Result() (domain.Result, error) {
	if e.runtime == nil {
		return domain.Result{}, domain.ErrNotStarted
	}
	return e.runtime.Result(), nil
}
