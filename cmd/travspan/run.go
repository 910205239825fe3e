package main

import (
	"github.com/aretw0/travspan/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [graph]",
	Short: "Step through a traversal interactively",
	Long: `Loads a graph and runs one traversal. Press enter to take a single step,
"i" to finish the current iteration, "r" to run to the end and "q" to quit.
With --headless the traversal runs to completion and only the result is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		if len(args) > 0 {
			opts.GraphPath = args[0]
		}
		opts.ConfigPath, _ = flags.GetString("config")
		opts.Algorithm, _ = flags.GetString("algorithm")
		opts.Mode, _ = flags.GetString("mode")
		opts.Start, _ = flags.GetString("start")
		opts.End, _ = flags.GetString("end")
		opts.Seed, _ = flags.GetUint64("seed")
		opts.MaxSteps, _ = flags.GetInt("max-steps")
		opts.Headless, _ = flags.GetBool("headless")
		opts.JSON, _ = flags.GetBool("json")
		opts.Trace, _ = flags.GetBool("trace")
		opts.Markings, _ = flags.GetBool("markings")
		opts.Quiet, _ = flags.GetBool("quiet")
		opts.RunID, _ = flags.GetString("run-id")
		opts.RedisAddr, _ = flags.GetString("redis")
		opts.StoreDir, _ = flags.GetString("store-dir")
		opts.LogLevel, _ = flags.GetString("log-level")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Execute(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringP("config", "c", "", "Run file (YAML) with graph, algorithm and endpoints")
	f.StringP("algorithm", "a", "", "bfs, dfs, rfs, dijkstra, astar or prim (default bfs)")
	f.StringP("mode", "m", "", "find-reachable, stop-at-end or find-all")
	f.StringP("start", "s", "", "Start vertex, by label or index")
	f.StringP("end", "e", "", "End vertex, by label or index; implies stop-at-end")
	f.Uint64("seed", 0, "Seed for random-first search")
	f.Int("max-steps", 0, "Stop a run command after this many steps (0 = unlimited)")
	f.Bool("headless", false, "Run to completion without prompts")
	f.Bool("json", false, "NDJSON input and output")
	f.Bool("trace", false, "Print tree additions as they happen")
	f.Bool("markings", false, "Print every vertex and edge colouring (implies --trace)")
	f.BoolP("quiet", "q", false, "Do not print individual steps")
	f.String("run-id", "", "Identifier used for events and persisted snapshots")
	f.String("redis", "", "Persist snapshots after every command to this redis address")
	f.String("store-dir", "", "Persist snapshots after every command as JSON files in this directory")
}
