package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/travspan/internal/cli"
	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/internal/logging"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareYAML = `
vertices: [{label: A}, {label: B}, {label: C}, {label: D}]
edges:
  - {from: A, to: B, weight: 1}
  - {from: B, to: C, weight: 1}
  - {from: C, to: D, weight: 1}
  - {from: D, to: A, weight: 1}
`

const lineTMG = `TMG 1.0 simple
3 2
P 0.0 0.0
Q 0.0 1.0
R 0.0 2.0
0 1 L1
1 2 L2
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func graphDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "square.yaml", squareYAML)
	writeFile(t, dir, "line.tmg", lineTMG)
	writeFile(t, dir, "README.md", "ignored")
	return dir
}

func TestLoadGraph(t *testing.T) {
	dir := graphDir(t)

	g, err := cli.LoadGraph(filepath.Join(dir, "square.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, g.VertexCount())

	g, err = cli.LoadGraph(filepath.Join(dir, "line.tmg"))
	require.NoError(t, err)
	assert.Equal(t, 2, g.EdgeCount())

	_, err = cli.LoadGraph(filepath.Join(dir, "README.md"))
	assert.ErrorIs(t, err, cli.ErrUnsupportedGraph)
}

func TestLoadCatalog(t *testing.T) {
	dir := graphDir(t)

	cat, err := cli.LoadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"line", "square"}, cat.Names())

	other := t.TempDir()
	dup := writeFile(t, other, "square.yml", squareYAML)
	_, err = cli.LoadCatalog(dir, dup)
	assert.ErrorContains(t, err, `graph "square" defined by both`)

	_, err = cli.LoadCatalog(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExecute_HeadlessText(t *testing.T) {
	dir := graphDir(t)
	out := &bytes.Buffer{}

	err := cli.Execute(context.Background(), cli.RunOptions{
		GraphPath: filepath.Join(dir, "square.yaml"),
		Algorithm: "dijkstra",
		Start:     "A",
		End:       "C",
		Headless:  true,
		Quiet:     true,
		Stdin:     strings.NewReader(""),
		Stdout:    out,
		Stderr:    io.Discard,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "# Dijkstra's Algorithm")
	assert.Contains(t, text, "1. `A` → `D`")
	assert.NotContains(t, text, "[q]uit")
}

func TestExecute_JSONWithRunFileAndRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := graphDir(t)
	runFile := writeFile(t, dir, "run.yaml", `
graph: `+filepath.Join(dir, "line.tmg")+`
algorithm: bfs
start: P
redis:
  addr: `+mr.Addr()+`
  prefix: "cli:"
`)
	out := &bytes.Buffer{}

	err := cli.Execute(context.Background(), cli.RunOptions{
		ConfigPath: runFile,
		JSON:       true,
		Trace:      true,
		RunID:      "line-run",
		Stdin:      strings.NewReader("\"iterate\"\n\"run\"\n"),
		Stdout:     out,
		Stderr:     io.Discard,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var first domain.StepEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "line-run", first.Run)
	assert.Equal(t, domain.StepStart, first.Step)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], `{"result"`))

	assert.True(t, mr.Exists("cli:line-run"))
}

func TestExecute_Errors(t *testing.T) {
	dir := graphDir(t)
	base := cli.RunOptions{Stdin: strings.NewReader(""), Stdout: io.Discard, Stderr: io.Discard, Headless: true}

	opts := base
	err := cli.Execute(context.Background(), opts)
	assert.ErrorContains(t, err, "no graph file")

	opts = base
	opts.GraphPath = filepath.Join(dir, "square.yaml")
	opts.Algorithm = "astar"
	err = cli.Execute(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration, "A* requires a destination")

	opts.Algorithm = "quick"
	err = cli.Execute(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	opts.Algorithm = "bfs"
	opts.LogLevel = "chatty"
	err = cli.Execute(context.Background(), opts)
	assert.ErrorContains(t, err, "unknown log level")
}

func TestDescribeGraph(t *testing.T) {
	dir := graphDir(t)
	path := filepath.Join(dir, "square.yaml")
	ctx := context.Background()

	out := &bytes.Buffer{}
	require.NoError(t, cli.DescribeGraph(ctx, out, cli.GraphOptions{Path: path}))
	assert.Equal(t, "square: 4 vertices, 4 edges, 1 components, minimum spanning weight 3.000\n", out.String())

	out.Reset()
	require.NoError(t, cli.DescribeGraph(ctx, out, cli.GraphOptions{Path: path, Format: "json"}))
	assert.JSONEq(t, `{"vertices":4,"edges":4,"components":1,"spanning_weight":3}`, out.String())

	out.Reset()
	require.NoError(t, cli.DescribeGraph(ctx, out, cli.GraphOptions{Path: path, Format: "dot"}))
	assert.Contains(t, out.String(), "graph square {")

	out.Reset()
	require.NoError(t, cli.DescribeGraph(ctx, out, cli.GraphOptions{
		Path: path, Format: "mermaid", Algorithm: "bfs", Start: "A", End: "C",
	}))
	assert.Contains(t, out.String(), `v0(("A"))`)
	assert.Contains(t, out.String(), "linkStyle 3 stroke:#ff5bb8")

	err := cli.DescribeGraph(ctx, out, cli.GraphOptions{Path: path, Format: "svg"})
	assert.ErrorContains(t, err, "unknown format")
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cli.Serve(ctx, cli.ServeOptions{
			GraphPaths: []string{graphDir(t)},
			Listener:   ln,
			Logger:     logging.NewNop(),
		})
	}()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Post(base+"/runs", "application/json",
		strings.NewReader(`{"id":"r1","graph":"square","config":{"algorithm":"bfs","start":0}}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = client.Post(base+"/runs/r1/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `travspan_runs_finished_total{algorithm="bfs",reason="found-component"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunsWithFileStore(t *testing.T) {
	dir := graphDir(t)
	storeDir := filepath.Join(t.TempDir(), "runs")
	ctx := context.Background()

	err := cli.Execute(ctx, cli.RunOptions{
		GraphPath: filepath.Join(dir, "square.yaml"),
		Algorithm: "prim",
		StoreDir:  storeDir,
		RunID:     "mst",
		Headless:  true,
		Stdin:     strings.NewReader(""),
		Stdout:    io.Discard,
		Stderr:    io.Discard,
	})
	require.NoError(t, err)

	store, closeStore := cli.OpenStore(config.Redis{}, storeDir)
	defer closeStore()
	require.NotNil(t, store)

	out := &bytes.Buffer{}
	require.NoError(t, cli.ListRuns(ctx, out, store))
	assert.Contains(t, out.String(), "- mst  prim")

	out.Reset()
	require.NoError(t, cli.InspectRun(ctx, out, store, "mst"))
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, "mst", snap.ID)
	assert.Equal(t, domain.AlgorithmPrim, snap.Config.Algorithm)

	out.Reset()
	require.NoError(t, cli.RemoveRuns(ctx, out, store, "mst"))
	assert.Equal(t, "Removed run 'mst'\n", out.String())

	out.Reset()
	require.NoError(t, cli.ListRuns(ctx, out, store))
	assert.Equal(t, "No stored runs found.\n", out.String())

	err = cli.InspectRun(ctx, out, store, "mst")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestOpenStore_None(t *testing.T) {
	store, closeStore := cli.OpenStore(config.Redis{}, "")
	assert.Nil(t, store)
	assert.NoError(t, closeStore())
}

func TestValidateGraph(t *testing.T) {
	dir := graphDir(t)
	out := &bytes.Buffer{}

	require.NoError(t, cli.ValidateGraph(out, filepath.Join(dir, "square.yaml"), "B"))
	assert.Equal(t, "square is valid (4 vertices, 4 edges)\n", out.String())

	split := writeFile(t, dir, "split.yaml", `
vertices: [{label: A}, {label: B}, {label: C}]
edges:
  - {from: A, to: B, weight: 1}
`)
	out.Reset()
	require.NoError(t, cli.ValidateGraph(out, split, ""))
	assert.Contains(t, out.String(), "warning: vertex 2 'C' is isolated\n")
	assert.Contains(t, out.String(), "split is valid")

	err := cli.ValidateGraph(out, split, "Z")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
