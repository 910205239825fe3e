package runtime

import (
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// policy computes frontier priorities for an algorithm.
type policy struct {
	algorithm domain.Algorithm
	graph     ports.GraphProvider
	end       domain.Vertex
	heuristic domain.Heuristic
}

// startRecord is the synthetic root record of a component.
func (p policy) startRecord(v domain.Vertex) domain.Record {
	r := domain.Record{To: v, Via: domain.NoEdge, From: domain.NoVertex}
	if p.algorithm == domain.AlgorithmAStar {
		r.H = p.estimate(v)
		r.Value = r.H
	}
	return r
}

// next builds the record for reaching to from prev.To over via.
//
//	traversals: value = hops
//	dijkstra:   value = g
//	a*:         value = g + h
//	prim:       value = weight(via)
func (p policy) next(prev domain.Record, via domain.Edge, to domain.Vertex) domain.Record {
	w := p.graph.EdgeWeight(via)
	r := domain.Record{
		To:   to,
		Via:  via,
		From: prev.To,
		G:    prev.G + w,
	}
	switch p.algorithm {
	case domain.AlgorithmDijkstra:
		r.Value = r.G
	case domain.AlgorithmAStar:
		r.H = p.estimate(to)
		r.Value = r.G + r.H
	case domain.AlgorithmPrim:
		r.Value = w
	default:
		r.Value = prev.Value + 1
	}
	return r
}

func (p policy) estimate(v domain.Vertex) float64 {
	if p.end == domain.NoVertex {
		return 0
	}
	return p.heuristic(p.graph.VertexCoordinate(v), p.graph.VertexCoordinate(p.end))
}
