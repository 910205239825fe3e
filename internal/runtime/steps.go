package runtime

import (
	"fmt"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// transitionFunc mutates the engine and returns the next step and a log message.
// Only getPlaceFromLDV can fail, and it checks before mutating.
type transitionFunc func(e *Engine) (domain.StepName, string, error)

var transitions = map[domain.StepName]transitionFunc{
	domain.StepStart:                  (*Engine).start,
	domain.StepCheckAllComponentsDone: (*Engine).checkAllComponentsDone,
	domain.StepCheckComponentDone:     (*Engine).checkComponentDone,
	domain.StepCheckEndAdded:          (*Engine).checkEndAdded,
	domain.StepCheckFrontierEmpty:     (*Engine).checkFrontierEmpty,
	domain.StepFrontierEmpty:          (*Engine).frontierEmpty,
	domain.StepGetPlace:               (*Engine).getPlace,
	domain.StepCheckAdded:             (*Engine).checkAdded,
	domain.StepWasAdded:               (*Engine).wasAdded,
	domain.StepWasNotAdded:            (*Engine).wasNotAdded,
	domain.StepNeighborsLoopTop:       (*Engine).neighborsLoopTop,
	domain.StepNeighborsLoopIf:        (*Engine).neighborsLoopIf,
	domain.StepNeighborsLoopIfTrue:    (*Engine).neighborsLoopIfTrue,
	domain.StepNeighborsLoopIfFalse:   (*Engine).neighborsLoopIfFalse,
	domain.StepFinalizeComponent:      (*Engine).finalizeComponent,
	domain.StepCheckAnyUnadded:        (*Engine).checkAnyUnadded,
	domain.StepStartNewComponent:      (*Engine).startNewComponent,
	domain.StepDoneToTrue:             (*Engine).doneToTrue,
	domain.StepCleanup:                (*Engine).cleanup,
}

func (e *Engine) start() (domain.StepName, string, error) {
	nV, nE := e.graph.VertexCount(), e.graph.EdgeCount()
	e.added = make([]bool, nV)
	e.discoveredV = make([]bool, nV)
	e.discoveredE = make([]bool, nE)
	e.counters = domain.Counters{
		UndiscoveredVertices: nV,
		UndiscoveredEdges:    nE,
	}

	e.discoverVertex(e.cfg.Start)
	e.markVertex(e.cfg.Start, domain.RoleStartVertex)
	if e.cfg.Mode == domain.StopAtEnd {
		e.markVertex(e.cfg.End, domain.RoleEndVertex)
	}
	e.insert(e.policy.startRecord(e.cfg.Start))

	msg := fmt.Sprintf("Initialized %s from %s", e.cfg.Algorithm.DisplayName(), e.describe(e.cfg.Start))
	switch e.cfg.Mode {
	case domain.StopAtEnd:
		return domain.StepCheckEndAdded, msg, nil
	case domain.FindAllComponents:
		e.allDone = false
		return domain.StepCheckAllComponentsDone, msg, nil
	}
	return domain.StepCheckComponentDone, msg, nil
}

func (e *Engine) checkAllComponentsDone() (domain.StepName, string, error) {
	if e.allDone {
		e.reason = domain.ReasonFoundAllComponents
		return domain.StepCleanup, "All components found", nil
	}
	return domain.StepCheckComponentDone, "Components remain to be found", nil
}

func (e *Engine) checkComponentDone() (domain.StepName, string, error) {
	if !e.frontier.IsEmpty() {
		return domain.StepGetPlace, fmt.Sprintf("%s has %d entries", e.frontierName(), e.frontier.Len()), nil
	}
	msg := fmt.Sprintf("%s is empty, component %d complete", e.frontierName(), e.counters.Component)
	if e.cfg.Mode == domain.FindAllComponents {
		return domain.StepFinalizeComponent, msg, nil
	}
	e.reason = domain.ReasonFoundComponent
	return domain.StepCleanup, msg, nil
}

func (e *Engine) checkEndAdded() (domain.StepName, string, error) {
	if e.added[e.cfg.End] {
		e.reason = domain.ReasonFoundPath
		return domain.StepCleanup, fmt.Sprintf("End vertex %s is in the tree", e.describe(e.cfg.End)), nil
	}
	return domain.StepCheckFrontierEmpty, fmt.Sprintf("End vertex %s not yet in the tree", e.describe(e.cfg.End)), nil
}

func (e *Engine) checkFrontierEmpty() (domain.StepName, string, error) {
	if e.frontier.IsEmpty() {
		return domain.StepFrontierEmpty, fmt.Sprintf("%s is empty", e.frontierName()), nil
	}
	return domain.StepGetPlace, fmt.Sprintf("%s has %d entries", e.frontierName(), e.frontier.Len()), nil
}

func (e *Engine) frontierEmpty() (domain.StepName, string, error) {
	e.reason = domain.ReasonSearchFailed
	return domain.StepCleanup, fmt.Sprintf("No path to %s, search failed", e.describe(e.cfg.End)), nil
}

func (e *Engine) getPlace() (domain.StepName, string, error) {
	if e.frontier.IsEmpty() {
		return "", "", domain.ErrEmptyFrontier
	}
	r, err := e.frontier.RemoveNext()
	if err != nil {
		return "", "", err
	}

	e.visiting = r
	e.hasVisiting = true
	e.hasNeighbor = false
	e.markVertex(r.To, domain.RoleVisiting)
	if !r.IsStart() {
		e.markEdge(r.Via, domain.RoleVisiting)
	}
	return domain.StepCheckAdded, fmt.Sprintf("Removed %s from %s", e.describeRecord(r), e.frontierName()), nil
}

func (e *Engine) checkAdded() (domain.StepName, string, error) {
	msg := fmt.Sprintf("Checking if %s was previously added", e.describe(e.visiting.To))
	if e.added[e.visiting.To] {
		return domain.StepWasAdded, msg, nil
	}
	return domain.StepWasNotAdded, msg, nil
}

func (e *Engine) wasAdded() (domain.StepName, string, error) {
	v := e.visiting
	e.counters.DiscardedOnRemoval++

	role := domain.RoleDiscardedOnRemoval
	if e.frontier.ContainsVertex(v.To) {
		role = domain.RoleAddedEarlier
	}
	e.markVertex(v.To, e.vertexRole(v.To, role))
	if !v.IsStart() {
		e.markEdge(v.Via, domain.RoleDiscardedOnRemoval)
	}
	return e.loopTop(), fmt.Sprintf("Discarding %s on removal", e.describeRecord(v)), nil
}

func (e *Engine) wasNotAdded() (domain.StepName, string, error) {
	v := e.visiting
	e.added[v.To] = true
	e.counters.TreeVertices++
	e.compV = append(e.compV, v.To)
	e.markVertex(v.To, e.vertexRole(v.To, domain.RoleAddedToTree))

	if !v.IsStart() {
		w := e.graph.EdgeWeight(v.Via)
		e.counters.TreeEdges++
		e.counters.TotalCost += w
		e.compCost += w
		e.compE = append(e.compE, v.Via)
		e.markEdge(v.Via, domain.RoleAddedToTree)
	}

	e.tree = append(e.tree, v)
	e.emit(domain.Event{
		Kind:   domain.EventTreeEntryAdded,
		Vertex: v.To,
		Edge:   v.Via,
		Record: &v,
		Seq:    e.counters.TreeEdges,
	})

	if e.cfg.Mode == domain.StopAtEnd {
		e.markPath(v.To, domain.RoleCurrentPath)
	}
	return domain.StepNeighborsLoopTop, fmt.Sprintf("Adding %s to tree", e.describeRecord(v)), nil
}

func (e *Engine) neighborsLoopTop() (domain.StepName, string, error) {
	v := e.visiting
	if e.cfg.Mode == domain.StopAtEnd {
		e.markPath(v.To, domain.RoleAddedToTree)
	}

	e.pending = e.pending[:0]
	for _, edge := range e.graph.AdjacentEdges(v.To) {
		if edge == v.Via {
			continue
		}
		e.pending = append(e.pending, neighbor{to: ports.OtherEnd(e.graph, edge, v.To), via: edge})
	}

	if len(e.pending) == 0 {
		return e.loopTop(), "No neighbors to loop over", nil
	}
	return domain.StepNeighborsLoopIf, fmt.Sprintf("Looping over %d neighbors", len(e.pending)), nil
}

func (e *Engine) neighborsLoopIf() (domain.StepName, string, error) {
	last := len(e.pending) - 1
	e.neighbor = e.pending[last]
	e.hasNeighbor = true
	e.pending = e.pending[:last]

	msg := fmt.Sprintf("Checking if %s is in the tree", e.describe(e.neighbor.to))
	if e.added[e.neighbor.to] {
		return domain.StepNeighborsLoopIfTrue, msg, nil
	}
	return domain.StepNeighborsLoopIfFalse, msg, nil
}

func (e *Engine) neighborsLoopIfTrue() (domain.StepName, string, error) {
	n := e.neighbor
	e.counters.DiscardedOnDiscovery++
	e.discoverEdge(n.via)
	e.markEdge(n.via, domain.RoleDiscardedOnDiscovery)

	msg := fmt.Sprintf("%s via %s already visited, discarding on discovery", e.describe(n.to), e.describeEdge(n.via))
	return e.afterNeighbor(), msg, nil
}

func (e *Engine) neighborsLoopIfFalse() (domain.StepName, string, error) {
	n := e.neighbor
	e.discoverVertex(n.to)
	e.discoverEdge(n.via)
	e.insert(e.policy.next(e.visiting, n.via, n.to))

	e.markVertex(n.to, e.vertexRole(n.to, domain.RoleDiscovered))
	e.markEdge(n.via, domain.RoleDiscovered)

	msg := fmt.Sprintf("%s via %s added to %s", e.describe(n.to), e.describeEdge(n.via), e.frontierName())
	return e.afterNeighbor(), msg, nil
}

func (e *Engine) afterNeighbor() domain.StepName {
	if len(e.pending) > 0 {
		return domain.StepNeighborsLoopIf
	}
	return e.loopTop()
}

func (e *Engine) finalizeComponent() (domain.StepName, string, error) {
	c := domain.Component{
		Index:    e.counters.Component,
		Vertices: e.compV,
		Edges:    e.compE,
		Cost:     e.compCost,
	}
	e.components = append(e.components, c)

	mark := domain.Mark{Role: domain.RoleCompletedComponent, Component: c.Index}
	for _, v := range c.Vertices {
		e.emit(domain.VertexMarked(v, mark))
	}
	for _, edge := range c.Edges {
		e.emit(domain.EdgeMarked(edge, mark))
	}

	e.compV, e.compE, e.compCost = nil, nil, 0
	msg := fmt.Sprintf("Finalized component %d with %d vertices, %d edges", c.Index, len(c.Vertices), len(c.Edges))
	return domain.StepCheckAnyUnadded, msg, nil
}

func (e *Engine) checkAnyUnadded() (domain.StepName, string, error) {
	msg := "Checking if all vertices have been added to a tree"
	if e.counters.TreeVertices != e.graph.VertexCount() {
		return domain.StepStartNewComponent, msg, nil
	}
	return domain.StepDoneToTrue, msg, nil
}

func (e *Engine) startNewComponent() (domain.StepName, string, error) {
	e.counters.Component++
	for e.cursor < len(e.added) && e.added[e.cursor] {
		e.cursor++
	}
	v := domain.Vertex(e.cursor)

	e.discoverVertex(v)
	e.markVertex(v, domain.RoleDiscovered)
	e.insert(e.policy.startRecord(v))

	return domain.StepCheckAllComponentsDone, fmt.Sprintf("Starting component %d with vertex %s", e.counters.Component, e.describe(v)), nil
}

func (e *Engine) doneToTrue() (domain.StepName, string, error) {
	e.allDone = true
	return domain.StepCheckAllComponentsDone, "All vertices added, setting done flag", nil
}

func (e *Engine) cleanup() (domain.StepName, string, error) {
	var msg string
	switch e.reason {
	case domain.ReasonFoundPath:
		p := e.pathTo(e.cfg.End)
		for _, r := range p.Records {
			e.markVertex(r.To, domain.RoleFoundPath)
			e.markEdge(r.Via, domain.RoleFoundPath)
		}
		e.path = &p
		e.emit(domain.Event{Kind: domain.EventPathFound, Vertex: e.cfg.End, Edge: domain.NoEdge, Path: &p})
		msg = fmt.Sprintf("Found path from %s to %s, cost %.3f with %d hops", e.describe(e.cfg.Start), e.describe(e.cfg.End), p.Cost, p.Hops)
	case domain.ReasonSearchFailed:
		msg = fmt.Sprintf("No path found from %s to %s", e.describe(e.cfg.Start), e.describe(e.cfg.End))
	case domain.ReasonFoundComponent:
		e.components = append(e.components, domain.Component{
			Index: e.counters.Component, Vertices: e.compV, Edges: e.compE, Cost: e.compCost,
		})
		e.compV, e.compE, e.compCost = nil, nil, 0
		msg = fmt.Sprintf("Found all paths from %s, total cost %.3f", e.describe(e.cfg.Start), e.counters.TotalCost)
	case domain.ReasonFoundAllComponents:
		msg = fmt.Sprintf("Found all %d components, total cost %.3f", e.counters.Component+1, e.counters.TotalCost)
	}

	e.hasVisiting = false
	e.hasNeighbor = false
	e.emit(domain.Event{Kind: domain.EventRunFinished, Vertex: domain.NoVertex, Edge: domain.NoEdge, Reason: e.reason})
	return domain.StepDone, msg, nil
}
