package main

import (
	"github.com/aretw0/travspan/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [graph files or directories...]",
	Short: "Start the Model Context Protocol server",
	Long:  `Exposes the loaded graphs as MCP tools so an agent can create and step runs.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		level, _ := flags.GetString("log-level")
		if level == "" {
			level = "warn"
		}
		logger, err := cli.CreateLogger(cmd.ErrOrStderr(), level)
		if err != nil {
			return err
		}
		opts := cli.MCPOptions{GraphPaths: args, Logger: logger}
		opts.Transport, _ = flags.GetString("transport")
		opts.Port, _ = flags.GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.ServeMCP(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port for the sse transport")
}
