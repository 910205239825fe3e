package dsl

import "github.com/aretw0/travspan/pkg/domain"

// VertexBuilder configures one vertex and the edges leaving it.
type VertexBuilder struct {
	label   string
	coord   domain.Coordinate
	builder *Builder
}

// At places the vertex, in degrees.
func (v *VertexBuilder) At(lat, lon float64) *VertexBuilder {
	v.coord = domain.Coordinate{Lat: lat, Lon: lon}
	return v
}

// Road adds an edge to target with an explicit weight.
func (v *VertexBuilder) Road(target string, weight float64) *VertexBuilder {
	return v.LabeledRoad(target, weight, "")
}

// LabeledRoad is Road with an edge label.
func (v *VertexBuilder) LabeledRoad(target string, weight float64, label string) *VertexBuilder {
	v.builder.Vertex(target)
	v.builder.edges = append(v.builder.edges, edgeSpec{from: v.label, to: target, weight: weight, label: label})
	return v
}

// Measured adds an edge to target weighted by its great-circle length
// through the shaping points, in miles.
func (v *VertexBuilder) Measured(target string, shaping ...domain.Coordinate) *VertexBuilder {
	v.builder.Vertex(target)
	v.builder.edges = append(v.builder.edges, edgeSpec{from: v.label, to: target, measured: true, shaping: shaping})
	return v
}

// Vertex switches to another vertex, for chaining.
func (v *VertexBuilder) Vertex(label string) *VertexBuilder {
	return v.builder.Vertex(label)
}
