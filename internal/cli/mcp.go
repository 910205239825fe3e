package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/travspan/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	GraphPaths []string
	// Transport is "stdio" or "sse".
	Transport string
	Port      int
	Logger    *slog.Logger
}

// ServeMCP exposes the graphs as MCP tools until ctx is cancelled or stdin closes.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b, err := newBackend(opts.GraphPaths, ServeOptions{}, logger)
	if err != nil {
		return err
	}
	defer b.close()

	srv := mcp.NewServer(b.runs, b.graphs, logger)
	switch opts.Transport {
	case "", "stdio":
		logger.Info("starting MCP server (stdio)", "graphs", b.graphs.Names())
		return srv.ServeStdio()
	case "sse":
		logger.Info("starting MCP server (SSE)", "port", opts.Port, "graphs", b.graphs.Names())
		return srv.ServeSSE(ctx, opts.Port)
	}
	return fmt.Errorf("unknown transport %q, supported: stdio, sse", opts.Transport)
}
