package main

import (
	"fmt"

	"github.com/aretw0/travspan/internal/cli"
	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/pkg/adapters/file"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage persisted run snapshots",
	Long:  `List, inspect and remove snapshots written by "run --store-dir" or "run --redis".`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore := getStore(cmd)
		defer closeStore()
		return cli.ListRuns(cmd.Context(), cmd.OutOrStdout(), store)
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print the snapshot of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore := getStore(cmd)
		defer closeStore()
		return cli.InspectRun(cmd.Context(), cmd.OutOrStdout(), store, args[0])
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore := getStore(cmd)
		defer closeStore()

		all, _ := cmd.Flags().GetBool("all")
		if all {
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			args = append(args, ids...)
		}
		if len(args) == 0 {
			return fmt.Errorf("no run ids given, use --all to remove every run")
		}
		return cli.RemoveRuns(cmd.Context(), cmd.OutOrStdout(), store, args...)
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd, runsInspectCmd, runsRmCmd)

	runsCmd.PersistentFlags().String("store-dir", file.DefaultDir, "Directory of JSON snapshots")
	runsCmd.PersistentFlags().String("redis", "", "Read snapshots from this redis address instead")
	runsCmd.PersistentFlags().String("redis-prefix", "", "Key prefix of the redis snapshots")
	runsRmCmd.Flags().Bool("all", false, "Remove every stored run")
}

func getStore(cmd *cobra.Command) (ports.SnapshotStore, func() error) {
	dir, _ := cmd.Flags().GetString("store-dir")
	addr, _ := cmd.Flags().GetString("redis")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	return cli.OpenStore(config.Redis{Addr: addr, Prefix: prefix}, dir)
}
