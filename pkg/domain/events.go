package domain

import (
	"context"
	"time"
)

// Role is the semantic status of a vertex or edge, reported to presentation sinks.
type Role string

const (
	RoleVisiting             Role = "visiting"
	RoleDiscovered           Role = "discovered"
	RoleAddedToTree          Role = "added"
	RoleAddedEarlier         Role = "added-earlier"
	RoleDiscardedOnDiscovery Role = "discarded-on-discovery"
	RoleDiscardedOnRemoval   Role = "discarded-on-removal"
	RoleStartVertex          Role = "start"
	RoleEndVertex            Role = "end"
	RoleCurrentPath          Role = "current-path"
	RoleCompletedComponent   Role = "component"
	RoleFoundPath            Role = "found-path"
)

// Mark pairs a role with the component index it applies to.
// Component is only meaningful for RoleCompletedComponent.
type Mark struct {
	Role      Role `json:"role"`
	Component int  `json:"component,omitempty"`
}

// EventKind defines the category of a notification produced by a transition.
type EventKind string

const (
	EventVertexMarked   EventKind = "vertex_marked"
	EventEdgeMarked     EventKind = "edge_marked"
	EventTreeEntryAdded EventKind = "tree_entry_added"
	EventPathFound      EventKind = "path_found"
	EventRunFinished    EventKind = "run_finished"
)

// Event is a notification emitted by a single step. Which fields are set depends on Kind.
type Event struct {
	Kind   EventKind         `json:"kind"`
	Vertex Vertex            `json:"vertex"`
	Edge   Edge              `json:"edge"`
	Mark   Mark              `json:"mark,omitzero"`
	Record *Record           `json:"record,omitempty"`
	Seq    int               `json:"seq,omitempty"`
	Path   *Path             `json:"path,omitempty"`
	Reason TerminationReason `json:"reason,omitempty"`
}

// VertexMarked builds a vertex marking event.
func VertexMarked(v Vertex, m Mark) Event {
	return Event{Kind: EventVertexMarked, Vertex: v, Edge: NoEdge, Mark: m}
}

// EdgeMarked builds an edge marking event.
func EdgeMarked(e Edge, m Mark) Event {
	return Event{Kind: EventEdgeMarked, Vertex: NoVertex, Edge: e, Mark: m}
}

// Path is a reconstructed start-to-end route.
type Path struct {
	Records []Record `json:"records"`
	Cost    float64  `json:"cost"`
	Hops    int      `json:"hops"`
}

// Vertices returns the vertices along the path, start first.
func (p Path) Vertices() []Vertex {
	if len(p.Records) == 0 {
		return nil
	}
	out := make([]Vertex, 0, len(p.Records)+1)
	out = append(out, p.Records[0].From)
	for _, r := range p.Records {
		out = append(out, r.To)
	}
	return out
}

// StepEvent describes one executed transition.
type StepEvent struct {
	Run          string    `json:"run,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Algorithm    Algorithm `json:"algorithm"`
	Step         StepName  `json:"step"`
	Next         StepName  `json:"next"`
	Message      string    `json:"message"`
	Count        int       `json:"count"`
	FrontierSize int       `json:"frontier_size"`
	Events       []Event   `json:"events,omitempty"`
}

// RunEvent describes the start or the end of a run.
type RunEvent struct {
	Run       string            `json:"run,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Config    Config            `json:"config"`
	Reason    TerminationReason `json:"reason,omitempty"`
	Steps     int               `json:"steps"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStart  func(context.Context, *RunEvent)
	OnStep   func(context.Context, *StepEvent)
	OnFinish func(context.Context, *RunEvent)
}

// Merge returns hooks that invoke h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStart:  chain(h.OnStart, other.OnStart),
		OnStep:   chain(h.OnStep, other.OnStep),
		OnFinish: chain(h.OnFinish, other.OnFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
