package ports

import "github.com/aretw0/travspan/pkg/domain"

// GraphProvider gives the engine read-only access to an undirected weighted graph.
// Implementations must be safe for concurrent reads; the engine never mutates them.
type GraphProvider interface {
	VertexCount() int
	EdgeCount() int

	// EdgeEndpoints returns the two vertices joined by e.
	EdgeEndpoints(e domain.Edge) (domain.Vertex, domain.Vertex)

	// EdgeWeight returns the non-negative length of e.
	EdgeWeight(e domain.Edge) float64

	// AdjacentEdges returns the edges incident to v, in a stable order.
	AdjacentEdges(v domain.Vertex) []domain.Edge

	// VertexCoordinate is used by the A* heuristic.
	VertexCoordinate(v domain.Vertex) domain.Coordinate
}

// Labeler is implemented by providers that carry human readable names.
type Labeler interface {
	VertexLabel(v domain.Vertex) string
	EdgeLabel(e domain.Edge) string
}

// OtherEnd returns the endpoint of e that is not v.
func OtherEnd(g GraphProvider, e domain.Edge, v domain.Vertex) domain.Vertex {
	a, b := g.EdgeEndpoints(e)
	if a == v {
		return b
	}
	return a
}

// GraphCatalog resolves graphs by name for servers that host several of them.
type GraphCatalog interface {
	// Graph returns the named graph or an error wrapping domain.ErrGraphNotFound.
	Graph(name string) (GraphProvider, error)

	// Names lists the available graphs, sorted.
	Names() []string
}
