/*
Package runner drives a traversal engine interactively.

The runner reads commands from an IOHandler (step, iterate, run to the end,
restart, quit), executes them against a travspan.Engine, and reports every
executed step back through the same handler. Two handlers are provided:

  - TextHandler: a prompt for terminals. Enter steps once, "i" finishes the
    current iteration, "r" runs to the end and "q" quits.
  - JSONHandler: newline-delimited JSON for scripts and other programs.

# Usage

	eng, _ := travspan.New(graph)
	_ = eng.Start(ctx, domain.Config{Algorithm: domain.AlgorithmBFS})

	r := runner.New(
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithRunID("demo"),
	)
	if err := r.Run(ctx, eng); err != nil {
		log.Fatal(err)
	}
*/
package runner
