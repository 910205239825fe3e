package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in := `
graph: maps/siena.tmg
algorithm: A*
start: B
end: 3
seed: 7
max_steps: 500
log_level: debug
redis:
  addr: localhost:6379
  ttl: 90m
`
	f, err := config.Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "maps/siena.tmg", f.Graph)
	assert.Equal(t, domain.AlgorithmAStar, f.Algorithm)
	assert.Equal(t, domain.StoppingMode(""), f.Mode)
	assert.Equal(t, "B", f.Start)
	assert.Equal(t, "3", f.End)
	assert.Equal(t, uint64(7), f.Seed)
	assert.Equal(t, 500, f.MaxSteps)
	assert.Equal(t, "localhost:6379", f.Redis.Addr)
	assert.Equal(t, 90*time.Minute, f.Redis.TTL)
}

func TestDecode_Modes(t *testing.T) {
	f, err := config.Decode(strings.NewReader("algorithm: bfs\nmode: all\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.FindAllComponents, f.Mode)

	f, err = config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &config.File{}, f)
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"yaml":      "algorithm: [",
		"algorithm": "algorithm: bogo-sort\n",
		"mode":      "mode: sometimes\n",
		"unknown":   "colour: red\n",
		"type":      "max_steps: lots\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(in))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestRunConfig(t *testing.T) {
	g := memory.NewGraph()
	g.AddVertex("A", domain.Coordinate{})
	g.AddVertex("B", domain.Coordinate{})
	g.AddVertex("C", domain.Coordinate{})
	g.AddVertex("D", domain.Coordinate{})

	f := &config.File{Algorithm: domain.AlgorithmDijkstra, Start: "B", End: "3"}
	cfg, err := f.RunConfig(g)
	require.NoError(t, err)
	assert.Equal(t, domain.Config{
		Algorithm: domain.AlgorithmDijkstra,
		Start:     1,
		End:       3,
		Mode:      domain.StopAtEnd,
	}, cfg)

	cfg, err = (&config.File{Algorithm: domain.AlgorithmBFS}).RunConfig(g)
	require.NoError(t, err)
	assert.Equal(t, domain.Vertex(0), cfg.Start)
	assert.Equal(t, domain.NoVertex, cfg.End)

	_, err = (&config.File{Start: "Z"}).RunConfig(g)
	assert.ErrorIs(t, err, config.ErrInvalid)
	_, err = (&config.File{End: "9"}).RunConfig(g)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algorithm: prim\n"), 0o644))

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.AlgorithmPrim, f.Algorithm)

	_, err = config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
