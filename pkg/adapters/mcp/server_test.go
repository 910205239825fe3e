package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcpAdapter "github.com/aretw0/travspan/pkg/adapters/mcp"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/session"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	g, err := memory.NewFromEdges(4,
		memory.EdgeSpec{From: 0, To: 1, Weight: 1},
		memory.EdgeSpec{From: 1, To: 2, Weight: 1},
		memory.EdgeSpec{From: 2, To: 3, Weight: 1},
		memory.EdgeSpec{From: 3, To: 0, Weight: 1},
	)
	require.NoError(t, err)
	catalog := memory.NewCatalog()
	catalog.Add("square", g)

	srv := mcpAdapter.NewServer(session.NewManager(memory.NewStore()), catalog, nil)
	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	var init mcp.InitializeRequest
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "1.0.0"}
	res, err := c.Initialize(ctx, init)
	require.NoError(t, err)
	require.Equal(t, "travspan-mcp", res.ServerInfo.Name)
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func snapshotOf(t *testing.T, text string) domain.Snapshot {
	t.Helper()
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snap), text)
	return snap
}

func TestServer_Tools(t *testing.T) {
	c := newClient(t)

	tools, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_graphs", "describe_graph", "start_run", "step_run", "iterate_run",
		"run_to_end", "get_run", "get_result", "delete_run",
	}, names)
}

func TestServer_Graphs(t *testing.T) {
	c := newClient(t)

	text, isErr := call(t, c, "list_graphs", nil)
	require.False(t, isErr, text)
	assert.JSONEq(t, `[{"name":"square","vertices":4,"edges":4}]`, text)

	text, isErr = call(t, c, "describe_graph", map[string]any{"graph": "square"})
	require.False(t, isErr, text)
	assert.JSONEq(t, `{"vertices":4,"edges":4,"components":1,"spanning_weight":3}`, text)

	text, isErr = call(t, c, "describe_graph", map[string]any{"graph": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "graph not found")
}

func TestServer_RunLifecycle(t *testing.T) {
	c := newClient(t)

	text, isErr := call(t, c, "start_run", map[string]any{
		"id": "r1", "graph": "square", "algorithm": "A*", "start": 0, "end": 2,
	})
	require.False(t, isErr, text)
	snap := snapshotOf(t, text)
	assert.Equal(t, domain.AlgorithmAStar, snap.Config.Algorithm)
	assert.Equal(t, domain.StopAtEnd, snap.Config.Mode)

	text, isErr = call(t, c, "step_run", map[string]any{"run_id": "r1", "count": 2})
	require.False(t, isErr, text)
	assert.Equal(t, 2, snapshotOf(t, text).Counters.Steps)

	text, isErr = call(t, c, "iterate_run", map[string]any{"run_id": "r1"})
	require.False(t, isErr, text)
	assert.True(t, snapshotOf(t, text).LastStep.EndsIteration())

	text, isErr = call(t, c, "run_to_end", map[string]any{"run_id": "r1"})
	require.False(t, isErr, text)
	snap = snapshotOf(t, text)
	assert.True(t, snap.Done)
	assert.Equal(t, domain.ReasonFoundPath, snap.Reason)

	text, isErr = call(t, c, "step_run", map[string]any{"run_id": "r1"})
	assert.True(t, isErr)
	assert.Contains(t, text, "run already terminated")
	text, isErr = call(t, c, "iterate_run", map[string]any{"run_id": "r1"})
	assert.True(t, isErr)
	assert.Contains(t, text, "run already terminated")

	text, isErr = call(t, c, "get_result", map[string]any{"run_id": "r1"})
	require.False(t, isErr, text)
	var res domain.Result
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	require.NotNil(t, res.Path)
	assert.Equal(t, 2, res.Path.Hops)

	text, isErr = call(t, c, "get_run", map[string]any{"run_id": "r1"})
	require.False(t, isErr, text)
	assert.True(t, snapshotOf(t, text).Done)

	var read mcp.ReadResourceRequest
	read.Params.URI = mcpAdapter.RunsResourceURI
	contents, err := c.ReadResource(context.Background(), read)
	require.NoError(t, err)
	require.Len(t, contents.Contents, 1)
	resource, ok := contents.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.JSONEq(t, `["r1"]`, resource.Text)

	text, isErr = call(t, c, "delete_run", map[string]any{"run_id": "r1"})
	require.False(t, isErr, text)

	text, isErr = call(t, c, "get_run", map[string]any{"run_id": "r1"})
	assert.True(t, isErr)
	assert.Contains(t, text, "run not found")
}

func TestServer_StartRunErrors(t *testing.T) {
	c := newClient(t)

	for _, args := range []map[string]any{
		{"graph": "square", "algorithm": "bogo"},
		{"graph": "square", "algorithm": "bfs", "mode": "sideways"},
		{"graph": "square", "algorithm": "astar"},
		{"graph": "square", "algorithm": "bfs", "start": 99},
		{"graph": "missing", "algorithm": "bfs"},
	} {
		text, isErr := call(t, c, "start_run", args)
		assert.True(t, isErr, "%v: %s", args, text)
	}

	text, isErr := call(t, c, "delete_run", map[string]any{})
	assert.True(t, isErr, text)
}
