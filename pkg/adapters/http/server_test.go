package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/travspan"
	httpAdapter "github.com/aretw0/travspan/pkg/adapters/http"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *httpAdapter.StreamManager) {
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

	streams := httpAdapter.NewStreamManager()
	mgr := session.NewManager(memory.NewStore(),
		session.WithEngineOptions(travspan.WithLifecycleHooks(streams.Hooks())))
	srv := httptest.NewServer(httpAdapter.NewHandler(mgr, catalog, httpAdapter.WithStreams(streams)))
	t.Cleanup(srv.Close)
	return srv, streams
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = bufio.NewReader(resp.Body).WriteTo(&buf)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestServer_HealthAndInfo(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode[map[string]any](t, body)
	assert.Equal(t, "travspan-http", info["app"])
	assert.Len(t, info["algorithms"], len(domain.Algorithms))
}

func TestServer_Graphs(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/graphs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	graphs := decode[[]httpAdapter.GraphInfo](t, body)
	assert.Equal(t, []httpAdapter.GraphInfo{{Name: "square", Vertices: 4, Edges: 4}}, graphs)

	resp, body = do(t, http.MethodGet, srv.URL+"/graphs/square", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[map[string]any](t, body)
	assert.EqualValues(t, 1, summary["components"])
	assert.EqualValues(t, 3, summary["spanning_weight"])

	resp, body = do(t, http.MethodGet, srv.URL+"/graphs/square/dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "graph square {")

	resp, _ = do(t, http.MethodGet, srv.URL+"/graphs/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RunLifecycle(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/runs",
		`{"id":"r1","graph":"square","config":{"algorithm":"bfs","start":0,"end":2,"mode":"stop-at-end"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "/runs/r1", resp.Header.Get("Location"))
	snap := decode[domain.Snapshot](t, body)
	assert.Equal(t, domain.StepStart, snap.Step)

	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/step?count=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	snap = decode[domain.Snapshot](t, body)
	assert.Equal(t, 3, snap.Counters.Steps)

	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/iterate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	snap = decode[domain.Snapshot](t, body)
	assert.True(t, snap.LastStep.EndsIteration())

	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/run", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	snap = decode[domain.Snapshot](t, body)
	assert.True(t, snap.Done)
	assert.Equal(t, domain.ReasonFoundPath, snap.Reason)

	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/step", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/iterate", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/runs/r1/result", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[domain.Result](t, body)
	require.NotNil(t, res.Path)
	assert.Equal(t, 2, res.Path.Hops)

	resp, body = do(t, http.MethodGet, srv.URL+"/runs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"r1"}, decode[[]string](t, body))

	resp, body = do(t, http.MethodPost, srv.URL+"/runs/r1/restart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.StepStart, decode[domain.Snapshot](t, body).Step)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/runs/r1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/runs/r1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Errors(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad json", http.MethodPost, "/runs", `{`, http.StatusBadRequest},
		{"unknown graph", http.MethodPost, "/runs", `{"graph":"nope","config":{"algorithm":"bfs"}}`, http.StatusNotFound},
		{"unsupported mode", http.MethodPost, "/runs", `{"graph":"square","config":{"algorithm":"astar","mode":"find-all"}}`, http.StatusBadRequest},
		{"astar without end", http.MethodPost, "/runs", `{"graph":"square","config":{"algorithm":"astar","start":2}}`, http.StatusBadRequest},
		{"stop at end without end", http.MethodPost, "/runs", `{"graph":"square","config":{"algorithm":"bfs","mode":"stop-at-end"}}`, http.StatusBadRequest},
		{"missing run", http.MethodPost, "/runs/ghost/step", "", http.StatusNotFound},
		{"bad count", http.MethodPost, "/runs/ghost/step?count=x", "", http.StatusBadRequest},
		{"missing result", http.MethodGet, "/runs/ghost/result", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
			assert.Contains(t, decode[map[string]string](t, body), "error")
		})
	}

	resp, _ := do(t, http.MethodPost, srv.URL+"/runs", `{"id":"dup","graph":"square","config":{"algorithm":"dfs"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, srv.URL+"/runs", `{"id":"dup","graph":"square","config":{"algorithm":"dfs"}}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_SubscribeEvents(t *testing.T) {
	srv, _ := newServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/runs", `{"id":"live","graph":"square","config":{"algorithm":"dijkstra"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/runs/live/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := bufio.NewScanner(stream.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	resp, _ = do(t, http.MethodPost, srv.URL+"/runs/live/step?count=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var steps []domain.StepEvent
	for len(steps) < 2 && lines.Scan() {
		data, ok := strings.CutPrefix(lines.Text(), "data: ")
		if !ok || data == "connected" {
			continue
		}
		steps = append(steps, decode[domain.StepEvent](t, []byte(data)))
	}
	require.Len(t, steps, 2)
	assert.Equal(t, "live", steps[0].Run)
	assert.Equal(t, domain.StepStart, steps[0].Step)
	assert.Equal(t, 2, steps[1].Count)
}

func TestServer_SubscribeEvents_UnknownRun(t *testing.T) {
	srv, _ := newServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/runs/ghost/events", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamManager_Broadcast(t *testing.T) {
	sm := httpAdapter.NewStreamManager()
	ch, cancel := sm.Subscribe("r")
	sm.Broadcast("r", "hello")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	sm.Broadcast("r", "after cancel")
}
