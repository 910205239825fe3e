package domain

// Record is a frontier entry: a tentative arrival at To via an edge.
// Records are immutable once created.
type Record struct {
	To   Vertex `json:"to"`
	Via  Edge   `json:"via"`
	From Vertex `json:"from"`
	// Value is the frontier priority (hops, path cost, g+h or edge weight).
	Value float64 `json:"value"`
	// G is the cumulative tree-path cost to To.
	G float64 `json:"g"`
	// H is the A* heuristic estimate from To to the destination.
	H float64 `json:"h,omitempty"`
	// Seq is the insertion sequence, used to break priority ties.
	Seq int `json:"seq"`
}

// IsStart reports whether the record is the synthetic root of a component.
func (r Record) IsStart() bool {
	return r.Via == NoEdge
}
