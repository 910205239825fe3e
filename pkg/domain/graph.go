package domain

import "math"

// Vertex is an opaque index into a GraphProvider.
type Vertex int

// Edge is an opaque index into a GraphProvider.
type Edge int

const (
	// NoVertex marks the absence of a vertex (e.g. the origin of a start record).
	NoVertex Vertex = -1
	// NoEdge marks the absence of an edge (the synthetic start record of a component).
	NoEdge Edge = -1
)

// earthRadiusMiles matches the radius used by the highway data tools that produce TMG files.
const earthRadiusMiles = 3963.1

// Coordinate is a point on the globe, in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// DistanceTo returns the great-circle distance in miles.
func (c Coordinate) DistanceTo(o Coordinate) float64 {
	if c == o {
		return 0
	}
	lat1 := c.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (o.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Heuristic estimates the remaining cost between two coordinates.
// It must never overestimate the true path cost for A* to stay optimal.
type Heuristic func(from, to Coordinate) float64

// StraightLine is the default A* heuristic: great-circle distance in miles.
func StraightLine(from, to Coordinate) float64 {
	return from.DistanceTo(to)
}

// ZeroHeuristic turns A* into Dijkstra. Useful for graphs without meaningful coordinates.
func ZeroHeuristic(_, _ Coordinate) float64 {
	return 0
}
