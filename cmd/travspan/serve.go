package main

import (
	"github.com/aretw0/travspan/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [graph files or directories...]",
	Short: "Start the HTTP server",
	Long: `Serves the loaded graphs over a JSON API. Runs are created with POST /runs and
advanced with /step, /iterate and /run; /events streams their progress as
server-sent events and /metrics exposes Prometheus metrics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		level, _ := flags.GetString("log-level")
		if level == "" {
			level = "info"
		}
		logger, err := cli.CreateLogger(cmd.ErrOrStderr(), level)
		if err != nil {
			return err
		}

		opts := cli.ServeOptions{GraphPaths: args, Logger: logger}
		port, _ := flags.GetString("port")
		opts.Addr = ":" + port
		opts.RedisAddr, _ = flags.GetString("redis")
		opts.RedisPassword, _ = flags.GetString("redis-password")
		opts.RedisDB, _ = flags.GetInt("redis-db")
		opts.RedisPrefix, _ = flags.GetString("redis-prefix")
		opts.SnapshotTTL, _ = flags.GetDuration("snapshot-ttl")
		opts.StoreDir, _ = flags.GetString("store-dir")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Serve(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.StringP("port", "p", "8080", "Port to listen on")
	f.String("redis", "", "Redis address for shared snapshots and run locks")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database")
	f.String("redis-prefix", "", "Key prefix for snapshots and locks")
	f.Duration("snapshot-ttl", 0, "Expire idle snapshots after this long (0 = never)")
	f.String("store-dir", "", "Keep snapshots as JSON files in this directory instead of memory")
}
