package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
)

// Builder collects vertices and edges until Build.
type Builder struct {
	order    []string
	vertices map[string]*VertexBuilder
	edges    []edgeSpec
}

type edgeSpec struct {
	from, to string
	weight   float64
	measured bool
	label    string
	shaping  []domain.Coordinate
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{vertices: make(map[string]*VertexBuilder)}
}

// Vertex returns the builder for the named vertex, creating it on first use.
func (b *Builder) Vertex(label string) *VertexBuilder {
	if vb, ok := b.vertices[label]; ok {
		return vb
	}
	vb := &VertexBuilder{label: label, builder: b}
	b.vertices[label] = vb
	b.order = append(b.order, label)
	return vb
}

// Build creates the graph. Every problem found is reported, joined.
func (b *Builder) Build() (*memory.Graph, error) {
	g := memory.NewGraph()
	ids := make(map[string]domain.Vertex, len(b.order))
	for _, label := range b.order {
		ids[label] = g.AddVertex(label, b.vertices[label].coord)
	}

	var errs []error
	for i, e := range b.edges {
		var err error
		if e.measured {
			_, err = g.AddEdgeAlong(ids[e.from], ids[e.to], e.label, e.shaping...)
		} else {
			_, err = g.AddEdge(ids[e.from], ids[e.to], e.weight, e.label)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("edge %d %s-%s: %w", i, e.from, e.to, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}
