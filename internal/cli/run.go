package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/internal/presentation/tui"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/observability"
	"github.com/aretw0/travspan/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
// Flag values override the run file named by ConfigPath.
type RunOptions struct {
	GraphPath  string
	ConfigPath string
	Algorithm  string
	Mode       string
	Start      string
	End        string
	Seed       uint64
	MaxSteps   int

	Headless bool
	JSON     bool
	// Trace prints tree additions and results as they happen; Markings adds every colouring.
	Trace    bool
	Markings bool
	Quiet    bool

	RunID     string
	RedisAddr string
	StoreDir  string
	LogLevel  string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// resolve merges the run file with the flags.
func (o RunOptions) resolve() (*config.File, error) {
	file := &config.File{}
	if o.ConfigPath != "" {
		f, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, err
		}
		file = f
	}
	if o.GraphPath != "" {
		file.Graph = o.GraphPath
	}
	if o.Algorithm != "" {
		a, err := domain.ParseAlgorithm(o.Algorithm)
		if err != nil {
			return nil, err
		}
		file.Algorithm = a
	}
	if o.Mode != "" {
		m, err := domain.ParseStoppingMode(o.Mode)
		if err != nil {
			return nil, err
		}
		file.Mode = m
	}
	if o.Start != "" {
		file.Start = o.Start
	}
	if o.End != "" {
		file.End = o.End
	}
	if o.Seed != 0 {
		file.Seed = o.Seed
	}
	if o.MaxSteps != 0 {
		file.MaxSteps = o.MaxSteps
	}
	if o.LogLevel != "" {
		file.LogLevel = o.LogLevel
	}
	if o.RedisAddr != "" {
		file.Redis.Addr = o.RedisAddr
	}
	if o.StoreDir != "" {
		file.StoreDir = o.StoreDir
	}
	if file.Graph == "" {
		return nil, fmt.Errorf("%w: no graph file given", config.ErrInvalid)
	}
	if file.Algorithm == "" {
		file.Algorithm = domain.AlgorithmBFS
	}
	return file, nil
}

// Execute runs one traversal interactively, or to the end when headless.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	file, err := opts.resolve()
	if err != nil {
		return err
	}
	logger, err := CreateLogger(opts.Stderr, file.LogLevel)
	if err != nil {
		return err
	}

	g, err := LoadGraph(file.Graph)
	if err != nil {
		return err
	}
	cfg, err := file.RunConfig(g)
	if err != nil {
		return err
	}

	runID := opts.RunID
	if runID == "" {
		runID = GraphName(file.Graph) + "-" + string(cfg.Algorithm)
	}

	engineOpts := []travspan.Option{
		travspan.WithLogger(logger),
		travspan.WithName(runID),
		travspan.WithLifecycleHooks(observability.AuditHooks(logger)),
	}
	if opts.Trace || opts.Markings {
		traceOut := opts.Stdout
		if opts.JSON {
			traceOut = opts.Stderr
		}
		trace := tui.NewTrace(traceOut, g)
		trace.Markings = opts.Markings
		engineOpts = append(engineOpts, travspan.WithPresentationSink(trace), travspan.WithResultsSink(trace))
	}

	eng, err := travspan.New(g, engineOpts...)
	if err != nil {
		return err
	}
	if err := eng.Start(ctx, cfg); err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithRunID(runID),
		runner.WithHeadless(opts.Headless),
		runner.WithMaxSteps(file.MaxSteps),
	}
	store, closeStore := OpenStore(file.Redis, file.StoreDir)
	defer closeStore()
	if store != nil {
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}

	interactive := IsTerminal(opts.Stdout)
	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithHandler(runner.NewJSONHandler(opts.Stdin, opts.Stdout)))
	} else {
		var render func(string) (string, error)
		if interactive {
			render = tui.NewRenderer()
		}
		h := runner.NewTextHandler(opts.Stdin, opts.Stdout,
			runner.WithQuiet(opts.Quiet),
			runner.WithFormatter(tui.Formatter(g, eng.Config, render)),
		)
		runnerOpts = append(runnerOpts, runner.WithHandler(h))
		if interactive && !opts.Headless {
			tui.PrintBanner(opts.Stdout)
			fmt.Fprintf(opts.Stdout, "%s on %s (%d vertices, %d edges), version %s\n\n",
				cfg.Algorithm.DisplayName(), file.Graph, g.VertexCount(), g.EdgeCount(), strings.TrimSpace(travspan.Version))
		}
	}

	return handleExecutionError(runner.New(runnerOpts...).Run(ctx, eng))
}
