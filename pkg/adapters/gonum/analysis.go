package gonum

import (
	"math"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Summary describes a graph using gonum's reference algorithms.
type Summary struct {
	Vertices   int `json:"vertices"`
	Edges      int `json:"edges"`
	Components int `json:"components"`
	// SpanningWeight is the weight of a minimum spanning forest.
	SpanningWeight float64 `json:"spanning_weight"`
}

// Summarize computes a Summary of p.
func Summarize(p ports.GraphProvider) Summary {
	g := ToGonum(p)
	return Summary{
		Vertices:       p.VertexCount(),
		Edges:          p.EdgeCount(),
		Components:     len(topo.ConnectedComponents(g)),
		SpanningWeight: SpanningWeight(g),
	}
}

// SpanningWeight returns the weight of a minimum spanning forest of g.
func SpanningWeight(g *simple.WeightedUndirectedGraph) float64 {
	dst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	return path.Kruskal(dst, g)
}

// ShortestDistances returns the shortest path cost from start to every vertex,
// +Inf for unreachable ones.
func ShortestDistances(p ports.GraphProvider, start domain.Vertex) []float64 {
	g := ToGonum(p)
	shortest := path.DijkstraFrom(g.Node(int64(start)), g)
	out := make([]float64, p.VertexCount())
	for v := range out {
		out[v] = shortest.WeightTo(int64(v))
	}
	return out
}

// MarshalDOT renders p as a Graphviz graph.
func MarshalDOT(p ports.GraphProvider, name string) ([]byte, error) {
	return dot.Marshal(ToGonum(p), name, "", "  ")
}
