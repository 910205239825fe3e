package tmg_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/travspan/pkg/adapters/tmg"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collapsed = `TMG 1.0 collapsed
3 3
A 0.0 0.0
B 0.0 1.0

C 1.0 1.0
0 1 US1
1 2 US2 0.5 1.5
0 2 I-9
`

func TestParse_Collapsed(t *testing.T) {
	g, err := tmg.Parse(strings.NewReader(collapsed))
	require.NoError(t, err)

	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, "B", g.VertexLabel(1))
	assert.Equal(t, "US2", g.EdgeLabel(1))
	assert.Equal(t, domain.Coordinate{Lat: 1, Lon: 1}, g.VertexCoordinate(2))

	a, b, c := g.VertexCoordinate(0), g.VertexCoordinate(1), g.VertexCoordinate(2)
	assert.InDelta(t, a.DistanceTo(b), g.EdgeWeight(0), 1e-9)
	assert.InDelta(t, a.DistanceTo(c), g.EdgeWeight(2), 1e-9)

	shape := domain.Coordinate{Lat: 0.5, Lon: 1.5}
	assert.InDelta(t, b.DistanceTo(shape)+shape.DistanceTo(c), g.EdgeWeight(1), 1e-9)
	assert.Greater(t, g.EdgeWeight(1), b.DistanceTo(c))

	from, to := g.EdgeEndpoints(1)
	assert.Equal(t, domain.Vertex(1), from)
	assert.Equal(t, domain.Vertex(2), to)
}

func TestParse_Simple(t *testing.T) {
	g, err := tmg.Parse(strings.NewReader("TMG 1.0 simple\n2 1\nX 42.1 -73.5\nY 42.2 -73.5\n0 1 NY22\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, g.VertexCount())
	assert.InDelta(t, 6.92, g.EdgeWeight(0), 0.01)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"bad header":        "GRAPH 1.0 simple\n0 0\n",
		"version":           "TMG 2.0 simple\n0 0\n",
		"format":            "TMG 1.0 traveled\n0 0\n",
		"counts":            "TMG 1.0 simple\nx 0\n",
		"short":             "TMG 1.0 simple\n2 0\nA 0 0\n",
		"vertex fields":     "TMG 1.0 simple\n1 0\nA 0\n",
		"coordinate":        "TMG 1.0 simple\n1 0\nA north 0\n",
		"endpoint":          "TMG 1.0 simple\n1 1\nA 0 0\n0 7 E\n",
		"endpoint parse":    "TMG 1.0 simple\n1 1\nA 0 0\n0 x E\n",
		"shaping in simple": "TMG 1.0 simple\n2 1\nA 0 0\nB 0 1\n0 1 E 0.5 0.5\n",
		"odd shaping":       "TMG 1.0 collapsed\n2 1\nA 0 0\nB 0 1\n0 1 E 0.5\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tmg.Parse(strings.NewReader(in))
			assert.ErrorIs(t, err, tmg.ErrFormat)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.tmg")
	require.NoError(t, os.WriteFile(path, []byte(collapsed), 0o644))

	g, err := tmg.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.VertexCount())

	_, err = tmg.Load(filepath.Join(t.TempDir(), "missing.tmg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
