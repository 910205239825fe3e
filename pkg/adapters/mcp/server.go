// Package mcp exposes graph runs as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/logging"
	"github.com/aretw0/travspan/pkg/adapters/gonum"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/aretw0/travspan/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunsResourceURI lists the known runs.
const RunsResourceURI = "travspan://runs"

// StartRunArgs are the arguments of start_run.
type StartRunArgs struct {
	ID        string `json:"id,omitempty"`
	Graph     string `json:"graph"`
	Algorithm string `json:"algorithm"`
	Start     int    `json:"start"`
	End       *int   `json:"end,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

// RunArgs address an existing run.
type RunArgs struct {
	RunID    string `json:"run_id"`
	Count    int    `json:"count,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// GraphArgs address a graph of the catalog.
type GraphArgs struct {
	Graph string `json:"graph"`
}

// Server exposes a session manager as an MCP server.
type Server struct {
	runs      *session.Manager
	graphs    ports.GraphCatalog
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(runs *session.Manager, graphs ports.GraphCatalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		runs:      runs,
		graphs:    graphs,
		logger:    logger,
		mcpServer: server.NewMCPServer("travspan-mcp", strings.TrimSpace(travspan.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the graphs that runs can be started on."),
	), s.handleListGraphs)

	s.mcpServer.AddTool(mcp.NewTool("describe_graph",
		mcp.WithDescription("Summarize a graph: vertex and edge counts, connected components, minimum spanning weight."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph name")),
	), mcp.NewStructuredToolHandler(s.handleDescribeGraph))

	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Start a traversal or spanning tree run positioned before its first step."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph name")),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("bfs, dfs, rfs, dijkstra, astar or prim")),
		mcp.WithNumber("start", mcp.Description("Start vertex (default 0)")),
		mcp.WithNumber("end", mcp.Description("End vertex, required in stop-at-end mode")),
		mcp.WithString("mode", mcp.Description("stop-at-end, find-reachable or find-all")),
		mcp.WithNumber("seed", mcp.Description("Seed of the random frontier (rfs)")),
		mcp.WithString("id", mcp.Description("Run ID (generated when omitted)")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("step_run",
		mcp.WithDescription("Execute one or more micro-steps of a run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithNumber("count", mcp.Description("Number of steps (default 1)")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleStepRun))

	s.mcpServer.AddTool(mcp.NewTool("iterate_run",
		mcp.WithDescription("Execute steps until one iteration of the outer search loop completes."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleIterateRun))

	s.mcpServer.AddTool(mcp.NewTool("run_to_end",
		mcp.WithDescription("Execute steps until the run is done."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithNumber("max_steps", mcp.Description("Stop after this many steps (0 for no limit)")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleRunToEnd))

	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Get the current snapshot of a run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleGetRun))

	s.mcpServer.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Get the tree, components and path produced by a run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
	), mcp.NewStructuredToolHandler(s.handleGetResult))

	s.mcpServer.AddTool(mcp.NewTool("delete_run",
		mcp.WithDescription("Forget a run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
	), s.handleDeleteRun)
}

func (s *Server) handleListGraphs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		Name     string `json:"name"`
		Vertices int    `json:"vertices"`
		Edges    int    `json:"edges"`
	}
	var out []entry
	for _, name := range s.graphs.Names() {
		g, err := s.graphs.Graph(name)
		if err != nil {
			continue
		}
		out = append(out, entry{Name: name, Vertices: g.VertexCount(), Edges: g.EdgeCount()})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleDescribeGraph(ctx context.Context, request mcp.CallToolRequest, args GraphArgs) (gonum.Summary, error) {
	g, err := s.graphs.Graph(args.Graph)
	if err != nil {
		return gonum.Summary{}, err
	}
	return gonum.Summarize(g), nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args StartRunArgs) (domain.Snapshot, error) {
	alg, err := domain.ParseAlgorithm(args.Algorithm)
	if err != nil {
		return domain.Snapshot{}, err
	}
	cfg := domain.NewConfig(alg, domain.Vertex(args.Start))
	cfg.Seed = args.Seed
	if args.Mode != "" {
		if cfg.Mode, err = domain.ParseStoppingMode(args.Mode); err != nil {
			return domain.Snapshot{}, err
		}
	}
	if args.End != nil {
		cfg.End = domain.Vertex(*args.End)
		if cfg.Mode == "" {
			cfg.Mode = domain.StopAtEnd
		}
	}

	g, err := s.graphs.Graph(args.Graph)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := s.runs.Create(ctx, args.ID, args.Graph, g, cfg)
	if err != nil {
		s.logger.Warn("MCP start_run rejected", "graph", args.Graph, "error", err)
		return domain.Snapshot{}, err
	}
	return *snap, nil
}

func (s *Server) handleStepRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Snapshot, error) {
	return deref(s.runs.Step(ctx, args.RunID, args.Count))
}

func (s *Server) handleIterateRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Snapshot, error) {
	return deref(s.runs.Iterate(ctx, args.RunID))
}

func (s *Server) handleRunToEnd(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Snapshot, error) {
	return deref(s.runs.RunToEnd(ctx, args.RunID, args.MaxSteps))
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Snapshot, error) {
	return deref(s.runs.Snapshot(ctx, args.RunID))
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Result, error) {
	return deref(s.runs.Result(ctx, args.RunID))
}

func (s *Server) handleDeleteRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID, err := request.RequireString("run_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.runs.Delete(ctx, runID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText("deleted " + runID), nil
}

func deref[T any](v *T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return *v, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RunsResourceURI, "Known runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		runs, err := s.runs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		if runs == nil {
			runs = []string{}
		}
		b, _ := json.Marshal(runs)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RunsResourceURI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	})
}
