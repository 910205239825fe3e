// Package gonum bridges travspan graph providers and gonum graphs.
//
// It converts in both directions, exports Graphviz DOT, and computes reference
// summaries (components, minimum spanning weight) with gonum's own algorithms.
package gonum

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/simple"
)

var (
	_ encoding.Attributer = Node{}
	_ encoding.Attributer = Edge{}
	_ graph.WeightedEdge  = Edge{}
)

// Node is a vertex as seen by gonum. IDs equal vertex indices.
type Node struct {
	Vertex domain.Vertex
	Label  string
	Coord  domain.Coordinate
}

func (n Node) ID() int64 { return int64(n.Vertex) }

// DOTID names the node in DOT output.
func (n Node) DOTID() string { return strconv.Itoa(int(n.Vertex)) }

func (n Node) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "lat", Value: fmtFloat(n.Coord.Lat)}, {Key: "lon", Value: fmtFloat(n.Coord.Lon)}}
	if n.Label != "" {
		attrs = append(attrs, encoding.Attribute{Key: "label", Value: strconv.Quote(n.Label)})
	}
	return attrs
}

// Edge is a weighted edge as seen by gonum. Parallel edges collapse to the lightest one.
type Edge struct {
	F, T  Node
	W     float64
	Index domain.Edge
	Label string
}

func (e Edge) From() graph.Node         { return e.F }
func (e Edge) To() graph.Node           { return e.T }
func (e Edge) Weight() float64          { return e.W }
func (e Edge) ReversedEdge() graph.Edge { e.F, e.T = e.T, e.F; return e }

func (e Edge) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "weight", Value: fmtFloat(e.W)}}
	if e.Label != "" {
		attrs = append(attrs, encoding.Attribute{Key: "label", Value: strconv.Quote(e.Label)})
	}
	return attrs
}

// ToGonum copies p into a gonum weighted undirected graph.
// Self loops are dropped and parallel edges keep the smallest weight,
// neither of which changes shortest paths or minimum spanning weights.
func ToGonum(p ports.GraphProvider) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	nodes := make([]Node, p.VertexCount())
	labels, _ := p.(ports.Labeler)
	for v := range nodes {
		n := Node{Vertex: domain.Vertex(v), Coord: p.VertexCoordinate(domain.Vertex(v))}
		if labels != nil {
			n.Label = labels.VertexLabel(n.Vertex)
		}
		nodes[v] = n
		g.AddNode(n)
	}

	for i := range p.EdgeCount() {
		e := domain.Edge(i)
		a, b := p.EdgeEndpoints(e)
		if a == b {
			continue
		}
		w := p.EdgeWeight(e)
		if existing := g.WeightedEdge(int64(a), int64(b)); existing != nil && existing.Weight() <= w {
			continue
		}
		edge := Edge{F: nodes[a], T: nodes[b], W: w, Index: e}
		if labels != nil {
			edge.Label = labels.EdgeLabel(e)
		}
		g.SetWeightedEdge(edge)
	}
	return g
}

// FromGonum builds a memory graph from any gonum weighted undirected graph.
// Vertices are numbered by ascending node ID; adjacency follows ascending neighbor ID.
func FromGonum(g graph.WeightedUndirected) (*memory.Graph, error) {
	nodes := graph.NodesOf(g.Nodes())
	slices.SortFunc(nodes, byID)

	out := memory.NewGraph()
	index := make(map[int64]domain.Vertex, len(nodes))
	for _, n := range nodes {
		label := strconv.FormatInt(n.ID(), 10)
		var coord domain.Coordinate
		if tn, ok := n.(Node); ok {
			label, coord = tn.Label, tn.Coord
		}
		index[n.ID()] = out.AddVertex(label, coord)
	}

	for _, u := range nodes {
		neighbors := graph.NodesOf(g.From(u.ID()))
		slices.SortFunc(neighbors, byID)
		for _, v := range neighbors {
			if v.ID() <= u.ID() {
				continue
			}
			we := g.WeightedEdge(u.ID(), v.ID())
			label := ""
			if te, ok := we.(Edge); ok {
				label = te.Label
			}
			if _, err := out.AddEdge(index[u.ID()], index[v.ID()], we.Weight(), label); err != nil {
				return nil, fmt.Errorf("gonum: edge %d-%d: %w", u.ID(), v.ID(), err)
			}
		}
	}
	return out, nil
}

func byID(a, b graph.Node) int { return cmp.Compare(a.ID(), b.ID()) }

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
