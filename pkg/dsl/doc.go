/*
Package dsl builds in-memory graphs with a fluent API, as an alternative to
TMG or YAML files in tests and programs that generate graphs.

Vertices are named; an edge may mention a vertex before it is declared, and
indices are assigned in order of first mention.

	b := dsl.New()
	b.Vertex("Albany").At(42.65, -73.75).Road("Troy", 7.4)
	b.Vertex("Troy").At(42.73, -73.69)
	b.Vertex("Schenectady").Measured("Albany")

	g, err := b.Build()

Road sets an explicit weight; Measured derives it from the great-circle
length through optional shaping points, which keeps the A* heuristic
admissible.
*/
package dsl
