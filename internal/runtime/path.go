package runtime

import (
	"slices"

	"github.com/aretw0/travspan/pkg/domain"
)

// ReconstructPath walks tree backward from target to start, following each record's
// origin. tree must be in commit order, so a parent always precedes its children.
// The returned records run start to target. A target without a tree record yields
// an empty path.
func ReconstructPath(tree []domain.Record, start, target domain.Vertex, weight func(domain.Edge) float64) domain.Path {
	var p domain.Path
	place := target
	for i := len(tree) - 1; i >= 0 && place != start; i-- {
		r := tree[i]
		if r.To != place {
			continue
		}
		if r.IsStart() {
			break
		}
		p.Records = append(p.Records, r)
		p.Cost += weight(r.Via)
		place = r.From
	}
	if place != start {
		return domain.Path{}
	}
	slices.Reverse(p.Records)
	p.Hops = len(p.Records)
	return p
}

func (e *Engine) pathTo(target domain.Vertex) domain.Path {
	return ReconstructPath(e.tree, e.cfg.Start, target, e.graph.EdgeWeight)
}

// markPath recolours the tree path from start to v, leaving start and end marks alone.
func (e *Engine) markPath(v domain.Vertex, role domain.Role) {
	for _, r := range e.pathTo(v).Records {
		e.markVertex(r.To, e.vertexRole(r.To, role))
		e.markEdge(r.Via, role)
	}
}
