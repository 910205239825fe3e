package travspan

import "github.com/aretw0/travspan/pkg/domain"

// Position describes where a run stands right after a step.
// Vertex and Edge are the neighbor under consideration inside the neighbor loop,
// and the record being visited otherwise.
type Position struct {
	Step   domain.StepName
	Next   domain.StepName
	Vertex domain.Vertex
	Edge   domain.Edge
}

// Breakpoint stops RunUntil when it returns true.
type Breakpoint func(Position) bool

// BreakOnStep matches when the named step has just executed.
func BreakOnStep(name domain.StepName) Breakpoint {
	return func(p Position) bool { return p.Step == name }
}

// BreakOnIterationEnd matches the step that closes one iteration of the outer search loop.
func BreakOnIterationEnd() Breakpoint {
	return func(p Position) bool { return p.Step.EndsIteration() }
}

// BreakOnVertex matches any step whose focus is v.
func BreakOnVertex(v domain.Vertex) Breakpoint {
	return func(p Position) bool { return p.Vertex == v }
}

// BreakOnEdge matches any step whose focus is e.
func BreakOnEdge(e domain.Edge) Breakpoint {
	return func(p Position) bool { return p.Edge == e }
}

// BreakOnVertexAt matches when step has just executed with v in focus,
// e.g. the moment v is added to the tree.
func BreakOnVertexAt(step domain.StepName, v domain.Vertex) Breakpoint {
	return AllOf(BreakOnStep(step), BreakOnVertex(v))
}

// AnyOf matches when at least one breakpoint matches.
func AnyOf(bps ...Breakpoint) Breakpoint {
	return func(p Position) bool {
		for _, bp := range bps {
			if bp(p) {
				return true
			}
		}
		return false
	}
}

// AllOf matches when every breakpoint matches.
func AllOf(bps ...Breakpoint) Breakpoint {
	return func(p Position) bool {
		for _, bp := range bps {
			if !bp(p) {
				return false
			}
		}
		return true
	}
}
