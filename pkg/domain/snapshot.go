package domain

import "time"

// Counters are the running statistics of a traversal.
type Counters struct {
	TreeVertices         int     `json:"tree_vertices"`
	TreeEdges            int     `json:"tree_edges"`
	UndiscoveredVertices int     `json:"undiscovered_vertices"`
	UndiscoveredEdges    int     `json:"undiscovered_edges"`
	DiscardedOnDiscovery int     `json:"discarded_on_discovery"`
	DiscardedOnRemoval   int     `json:"discarded_on_removal"`
	Component            int     `json:"component"`
	TotalCost            float64 `json:"total_cost"`
	Steps                int     `json:"steps"`
}

// Snapshot is a read-only, serializable view of a run at a step boundary.
type Snapshot struct {
	ID           string            `json:"id,omitempty"`
	Config       Config            `json:"config"`
	Step         StepName          `json:"step"`
	LastStep     StepName          `json:"last_step,omitempty"`
	Message      string            `json:"message,omitempty"`
	Visiting     *Record           `json:"visiting,omitempty"`
	Frontier     []Record          `json:"frontier"`
	FrontierName string            `json:"frontier_name"`
	Counters     Counters          `json:"counters"`
	Done         bool              `json:"done"`
	Reason       TerminationReason `json:"reason,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Component is a finalized connected component (or spanning tree of one).
type Component struct {
	Index    int      `json:"index"`
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
	Cost     float64  `json:"cost"`
}

// Result summarizes a finished run.
type Result struct {
	Reason     TerminationReason `json:"reason"`
	Path       *Path             `json:"path,omitempty"`
	Tree       []Record          `json:"tree"`
	Components []Component       `json:"components"`
	TotalCost  float64           `json:"total_cost"`
	Counters   Counters          `json:"counters"`
}
