package memory

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/travspan/pkg/domain"
)

// ErrInvalidEdge is returned when an edge references unknown vertices or has an unusable weight.
var ErrInvalidEdge = errors.New("memory: invalid edge")

type edge struct {
	a, b   domain.Vertex
	weight float64
	label  string
}

// Graph implements ports.GraphProvider and ports.Labeler with slices.
// Build it with AddVertex/AddEdge, then share it read-only between engines.
type Graph struct {
	labels []string
	coords []domain.Coordinate
	edges  []edge
	adj    [][]domain.Edge
}

// EdgeSpec describes an edge for NewFromEdges.
type EdgeSpec struct {
	From, To domain.Vertex
	Weight   float64
	Label    string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// NewFromEdges creates a graph of n unlabeled vertices at the origin joined by edges.
// Adjacency order follows the order of edges, which makes it convenient for tests.
func NewFromEdges(n int, edges ...EdgeSpec) (*Graph, error) {
	g := NewGraph()
	for i := range n {
		g.AddVertex(fmt.Sprintf("v%d", i), domain.Coordinate{})
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e.From, e.To, e.Weight, e.Label); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddVertex appends a vertex and returns its index.
func (g *Graph) AddVertex(label string, c domain.Coordinate) domain.Vertex {
	g.labels = append(g.labels, label)
	g.coords = append(g.coords, c)
	g.adj = append(g.adj, nil)
	return domain.Vertex(len(g.labels) - 1)
}

// AddEdge joins a and b with a non-negative weight and returns the edge index.
func (g *Graph) AddEdge(a, b domain.Vertex, weight float64, label string) (domain.Edge, error) {
	if !g.valid(a) || !g.valid(b) {
		return domain.NoEdge, fmt.Errorf("%w: endpoints %d-%d with %d vertices", ErrInvalidEdge, a, b, len(g.labels))
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return domain.NoEdge, fmt.Errorf("%w: weight %v on %d-%d", ErrInvalidEdge, weight, a, b)
	}

	id := domain.Edge(len(g.edges))
	g.edges = append(g.edges, edge{a: a, b: b, weight: weight, label: label})
	g.adj[a] = append(g.adj[a], id)
	if a != b {
		g.adj[b] = append(g.adj[b], id)
	}
	return id, nil
}

// AddEdgeAlong joins a and b with a weight equal to the great-circle length of the
// polyline a, shaping..., b in miles. Such weights keep the straight-line heuristic admissible.
func (g *Graph) AddEdgeAlong(a, b domain.Vertex, label string, shaping ...domain.Coordinate) (domain.Edge, error) {
	if !g.valid(a) || !g.valid(b) {
		return domain.NoEdge, fmt.Errorf("%w: endpoints %d-%d with %d vertices", ErrInvalidEdge, a, b, len(g.labels))
	}
	length := 0.0
	prev := g.coords[a]
	for _, p := range shaping {
		length += prev.DistanceTo(p)
		prev = p
	}
	length += prev.DistanceTo(g.coords[b])
	return g.AddEdge(a, b, length, label)
}

func (g *Graph) valid(v domain.Vertex) bool {
	return v >= 0 && int(v) < len(g.labels)
}

func (g *Graph) VertexCount() int { return len(g.labels) }
func (g *Graph) EdgeCount() int   { return len(g.edges) }

func (g *Graph) EdgeEndpoints(e domain.Edge) (domain.Vertex, domain.Vertex) {
	ed := g.edges[e]
	return ed.a, ed.b
}

func (g *Graph) EdgeWeight(e domain.Edge) float64 { return g.edges[e].weight }

// AdjacentEdges returns the incident edges in insertion order. The slice must not be modified.
func (g *Graph) AdjacentEdges(v domain.Vertex) []domain.Edge { return g.adj[v] }

func (g *Graph) VertexCoordinate(v domain.Vertex) domain.Coordinate { return g.coords[v] }

func (g *Graph) VertexLabel(v domain.Vertex) string { return g.labels[v] }
func (g *Graph) EdgeLabel(e domain.Edge) string     { return g.edges[e].label }

// FindVertex returns the first vertex carrying label.
func (g *Graph) FindVertex(label string) (domain.Vertex, bool) {
	for i, l := range g.labels {
		if l == label {
			return domain.Vertex(i), true
		}
	}
	return domain.NoVertex, false
}
