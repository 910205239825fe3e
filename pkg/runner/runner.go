package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// Runner handles the interactive loop of a traversal engine using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store receives a snapshot after every command.
	// If nil, runs are not persisted.
	Store ports.SnapshotStore

	// RunID names the run in persisted snapshots and step events.
	RunID string

	// Headless runs to the end without reading input.
	Headless bool

	// MaxSteps bounds a single "run" command. Zero means no limit.
	MaxSteps int

	// interrupts scopes ctx to SIGINT and SIGTERM for the duration of Run.
	interrupts func(context.Context) (context.Context, context.CancelFunc)
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures a custom IOHandler.
func WithHandler(h IOHandler) Option {
	return func(r *Runner) { r.Handler = h }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.Logger = logger }
}

// WithStore configures snapshot persistence.
func WithStore(store ports.SnapshotStore) Option {
	return func(r *Runner) { r.Store = store }
}

// WithRunID sets the run name used for persistence.
// This is required if WithStore is used.
func WithRunID(id string) Option {
	return func(r *Runner) { r.RunID = id }
}

// WithHeadless makes the runner execute the whole run without prompting.
func WithHeadless(headless bool) Option {
	return func(r *Runner) { r.Headless = headless }
}

// WithMaxSteps bounds how many steps a single run command may execute.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.MaxSteps = n }
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.DiscardHandler),
		interrupts: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run reads commands and executes them against eng until the run is done,
// the input ends, the user quits, or ctx is cancelled.
// The engine must already be started.
func (r *Runner) Run(ctx context.Context, eng *travspan.Engine) error {
	if _, err := eng.Snapshot(); err != nil {
		return err
	}

	ctx, stop := r.interrupts(ctx)
	defer stop()

	if r.Headless {
		if err := r.execute(ctx, eng, CommandRun); err != nil {
			return err
		}
		return r.finish(ctx, eng)
	}

	for !eng.IsDone() {
		cmd, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("input error: %w", err)
		}
		if cmd == CommandQuit {
			r.Logger.Debug("quit requested", "run", r.RunID)
			return nil
		}
		if err := r.execute(ctx, eng, cmd); err != nil {
			return err
		}
	}
	return r.finish(ctx, eng)
}

func (r *Runner) execute(ctx context.Context, eng *travspan.Engine, cmd Command) error {
	r.Logger.Debug("command", "run", r.RunID, "cmd", cmd)

	var err error
	switch cmd {
	case CommandStep:
		err = r.step(ctx, eng)
	case CommandIterate:
		err = r.runUntil(ctx, eng, travspan.BreakOnIterationEnd(), 0)
	case CommandRun:
		err = r.runUntil(ctx, eng, nil, r.MaxSteps)
	case CommandRestart:
		err = eng.Restart(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if err != nil {
		return err
	}
	return r.save(ctx, eng)
}

func (r *Runner) step(ctx context.Context, eng *travspan.Engine) error {
	name, err := eng.Step(ctx)
	if err != nil {
		return err
	}
	return r.output(ctx, eng, name)
}

// runUntil lets the engine drive the loop and reports every step to the handler.
// A failing handler stops the run like a matching breakpoint would.
func (r *Runner) runUntil(ctx context.Context, eng *travspan.Engine, stop travspan.Breakpoint, maxSteps int) error {
	var outErr error
	_, _, err := eng.RunUntil(ctx, func(p travspan.Position) bool {
		if outErr = r.output(ctx, eng, p.Step); outErr != nil {
			return true
		}
		return stop != nil && stop(p)
	}, maxSteps)
	return errors.Join(err, outErr)
}

func (r *Runner) output(ctx context.Context, eng *travspan.Engine, name domain.StepName) error {
	snap, err := eng.Snapshot()
	if err != nil {
		return err
	}
	ev := &domain.StepEvent{
		Run:          r.RunID,
		Timestamp:    snap.UpdatedAt,
		Algorithm:    snap.Config.Algorithm,
		Step:         name,
		Next:         snap.Step,
		Message:      snap.Message,
		Count:        snap.Counters.Steps,
		FrontierSize: len(snap.Frontier),
	}
	if err := r.Handler.Output(ctx, ev); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) finish(ctx context.Context, eng *travspan.Engine) error {
	if !eng.IsDone() {
		return nil
	}
	res, err := eng.Result()
	if err != nil {
		return err
	}
	if err := r.Handler.Finish(ctx, res); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) save(ctx context.Context, eng *travspan.Engine) error {
	if r.Store == nil || r.RunID == "" {
		return nil
	}
	snap, err := eng.Snapshot()
	if err != nil {
		return err
	}
	snap.ID = r.RunID
	if err := r.Store.Save(context.WithoutCancel(ctx), r.RunID, &snap); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("snapshot saved", "run", r.RunID, "step", snap.Step)
	return nil
}
