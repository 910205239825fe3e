package runtime_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/travspan/internal/runtime"
	"github.com/aretw0/travspan/pkg/adapters/gonum"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomGraph builds a multigraph with integer weights, parallel edges and self loops.
// Several components are likely with m close to n.
func randomGraph(t *testing.T, seed uint64, n, m int) *memory.Graph {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed+1))
	var edges []memory.EdgeSpec
	for range m {
		edges = append(edges, memory.EdgeSpec{
			From:   domain.Vertex(r.IntN(n)),
			To:     domain.Vertex(r.IntN(n)),
			Weight: float64(1 + r.IntN(20)),
		})
	}
	g, err := memory.NewFromEdges(n, edges...)
	require.NoError(t, err)
	return g
}

// geoGraph builds a connected graph with coordinates and great-circle edge lengths.
func geoGraph(t *testing.T, seed uint64, n, extra int) *memory.Graph {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed+1))
	g := memory.NewGraph()
	for i := range n {
		g.AddVertex("", domain.Coordinate{Lat: 40 + r.Float64(), Lon: -75 + r.Float64()})
		if i > 0 {
			_, err := g.AddEdgeAlong(domain.Vertex(r.IntN(i)), domain.Vertex(i), "")
			require.NoError(t, err)
		}
	}
	for range extra {
		a, b := domain.Vertex(r.IntN(n)), domain.Vertex(r.IntN(n))
		bend := domain.Coordinate{Lat: 40 + r.Float64(), Lon: -75 + r.Float64()}
		_, err := g.AddEdgeAlong(a, b, "", bend)
		require.NoError(t, err)
	}
	return g
}

// hopDistances is a plain BFS used as the reference for traversal values.
func hopDistances(g *memory.Graph, root domain.Vertex) map[domain.Vertex]int {
	dist := map[domain.Vertex]int{root: 0}
	queue := []domain.Vertex{root}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.AdjacentEdges(v) {
			a, b := g.EdgeEndpoints(e)
			w := a
			if a == v {
				w = b
			}
			if _, ok := dist[w]; !ok {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	return dist
}

func assertTreeInvariants(t *testing.T, tr trace, res domain.Result) {
	t.Helper()
	seen := map[domain.Vertex]bool{}
	for _, r := range res.Tree {
		assert.False(t, seen[r.To], "vertex %d added twice", r.To)
		seen[r.To] = true
	}
	assert.Equal(t, len(res.Tree), res.Counters.TreeVertices)

	discovered := map[domain.Vertex]bool{}
	for _, ev := range tr.events {
		switch ev.Kind {
		case domain.EventVertexMarked:
			switch ev.Mark.Role {
			case domain.RoleDiscovered, domain.RoleStartVertex, domain.RoleEndVertex:
				discovered[ev.Vertex] = true
			}
		case domain.EventTreeEntryAdded:
			assert.True(t, discovered[ev.Record.To], "vertex %d added before discovery", ev.Record.To)
		}
	}
}

func TestProperty_BFSValuesAreHopDistances(t *testing.T) {
	for seed := range uint64(5) {
		g := randomGraph(t, seed, 30, 35)
		e := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmBFS, Start: 0, Mode: domain.FindAllComponents})
		tr := runToDone(t, e)
		res := e.Result()

		assertTreeInvariants(t, tr, res)
		assert.Equal(t, g.VertexCount(), res.Counters.TreeVertices)
		assert.Equal(t, g.VertexCount()-len(res.Components), res.Counters.TreeEdges)
		assert.Equal(t, gonum.Summarize(g).Components, len(res.Components))

		var ref map[domain.Vertex]int
		for _, r := range res.Tree {
			if r.IsStart() {
				ref = hopDistances(g, r.To)
			}
			assert.Equal(t, float64(ref[r.To]), r.Value, "seed %d vertex %d", seed, r.To)
		}
	}
}

func TestProperty_DijkstraMatchesReference(t *testing.T) {
	for seed := range uint64(5) {
		g := randomGraph(t, seed, 30, 60)
		e := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmDijkstra, Start: 0, Mode: domain.FindReachable})
		tr := runToDone(t, e)
		res := e.Result()
		assertTreeInvariants(t, tr, res)

		want := gonum.ShortestDistances(g, 0)
		got := map[domain.Vertex]float64{}
		for _, r := range res.Tree {
			got[r.To] = r.G
		}
		for v, d := range want {
			if math.IsInf(d, 1) {
				assert.NotContains(t, got, domain.Vertex(v))
				continue
			}
			assert.Equal(t, d, got[domain.Vertex(v)], "seed %d vertex %d", seed, v)
		}
	}
}

func TestProperty_PrimMatchesKruskal(t *testing.T) {
	for seed := range uint64(5) {
		g := randomGraph(t, seed, 25, 45)
		e := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmPrim, Start: 3, Mode: domain.FindAllComponents})
		tr := runToDone(t, e)
		res := e.Result()
		assertTreeInvariants(t, tr, res)

		assert.Equal(t, gonum.SpanningWeight(gonum.ToGonum(g)), res.TotalCost, "seed %d", seed)

		sum := 0.0
		for _, c := range res.Components {
			sum += c.Cost
		}
		assert.Equal(t, res.TotalCost, sum)
	}
}

func TestProperty_AStarCostEqualsDijkstra(t *testing.T) {
	for seed := range uint64(5) {
		g := geoGraph(t, seed, 40, 60)
		end := domain.Vertex(g.VertexCount() - 1)

		astar := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmAStar, Start: 0, End: end, Mode: domain.StopAtEnd})
		runToDone(t, astar)
		dijkstra := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmDijkstra, Start: 0, End: end, Mode: domain.StopAtEnd})
		runToDone(t, dijkstra)

		a, d := astar.Result(), dijkstra.Result()
		require.Equal(t, domain.ReasonFoundPath, a.Reason)
		require.Equal(t, domain.ReasonFoundPath, d.Reason)
		assert.InDelta(t, d.Path.Cost, a.Path.Cost, 1e-6, "seed %d", seed)
		assert.InDelta(t, gonum.ShortestDistances(g, 0)[end], a.Path.Cost, 1e-6)

		last := a.Path.Records[len(a.Path.Records)-1]
		assert.Equal(t, end, last.To)
		assert.Zero(t, last.H)
		assert.InDelta(t, last.G, last.Value, 1e-9)
	}
}

func TestAStar_ZeroHeuristicOption(t *testing.T) {
	g := geoGraph(t, 42, 20, 20)
	end := domain.Vertex(19)
	e := newEngine(t, g, domain.Config{Algorithm: domain.AlgorithmAStar, Start: 0, End: end}, runtime.WithHeuristic(domain.ZeroHeuristic))
	runToDone(t, e)

	for _, r := range e.Result().Tree {
		assert.Zero(t, r.H)
		assert.Equal(t, r.G, r.Value)
	}
}

func TestProperty_RFSDeterministicForSeed(t *testing.T) {
	g := randomGraph(t, 9, 30, 50)
	cfg := domain.Config{Algorithm: domain.AlgorithmRFS, Start: 2, Mode: domain.FindAllComponents, Seed: 1234}

	first := runToDone(t, newEngine(t, g, cfg))
	second := runToDone(t, newEngine(t, g, cfg))
	assert.Equal(t, first.steps, second.steps)
	assert.Equal(t, first.events, second.events)

	injected := runToDone(t, newEngine(t, g, cfg, runtime.WithRand(rand.New(rand.NewPCG(5, 5)))))
	again := runToDone(t, newEngine(t, g, cfg, runtime.WithRand(rand.New(rand.NewPCG(5, 5)))))
	assert.Equal(t, injected.events, again.events)
}

func TestProperty_StopAtEndPathIsTreePath(t *testing.T) {
	g := geoGraph(t, 3, 30, 30)
	for _, alg := range []domain.Algorithm{domain.AlgorithmBFS, domain.AlgorithmDFS, domain.AlgorithmRFS, domain.AlgorithmPrim} {
		e := newEngine(t, g, domain.Config{Algorithm: alg, Start: 4, End: 17, Mode: domain.StopAtEnd, Seed: 8})
		runToDone(t, e)
		res := e.Result()
		require.Equal(t, domain.ReasonFoundPath, res.Reason, alg)
		require.NotNil(t, res.Path)

		vs := res.Path.Vertices()
		assert.Equal(t, domain.Vertex(4), vs[0])
		assert.Equal(t, domain.Vertex(17), vs[len(vs)-1])
		for i, r := range res.Path.Records {
			a, b := g.EdgeEndpoints(r.Via)
			assert.ElementsMatch(t, []domain.Vertex{vs[i], vs[i+1]}, []domain.Vertex{a, b})
		}
	}
}
