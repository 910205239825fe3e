package main

import (
	"github.com/aretw0/travspan/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Describe or export a graph",
	Long: `Prints a summary of a graph file, or exports it as JSON, Graphviz DOT or Mermaid.
With --algorithm the Mermaid diagram highlights the resulting tree and path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.GraphOptions{Path: args[0]}
		opts.Format, _ = flags.GetString("format")
		opts.Algorithm, _ = flags.GetString("algorithm")
		opts.Mode, _ = flags.GetString("mode")
		opts.Start, _ = flags.GetString("start")
		opts.End, _ = flags.GetString("end")
		return cli.DescribeGraph(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	f := graphCmd.Flags()
	f.StringP("format", "f", "summary", "summary, json, dot or mermaid")
	f.StringP("algorithm", "a", "", "Run this algorithm and overlay the result (mermaid only)")
	f.StringP("mode", "m", "", "Stopping mode for the overlay run")
	f.StringP("start", "s", "", "Start vertex for the overlay run")
	f.StringP("end", "e", "", "End vertex for the overlay run")
}
