package main

import (
	"github.com/aretw0/travspan/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a graph file for consistency",
	Long: `Loads a graph and reports invalid weights, self-loops, parallel edges,
duplicate labels and vertices unreachable from the start vertex.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		return cli.ValidateGraph(cmd.OutOrStdout(), args[0], start)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("start", "s", "", "Vertex to crawl from (default the first vertex)")
}
