// Package validator lints graph files before they are traversed.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// Report lists the problems found in a graph. Errors make traversal results
// meaningless; warnings are legal but usually unintended.
type Report struct {
	Errors   []string
	Warnings []string
	// Unreachable counts vertices that the crawl from the start vertex never saw.
	Unreachable int
}

// Err joins the errors into one, or returns nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateGraph checks edge weights and endpoints, looks for self-loops,
// parallel edges and duplicate labels, and crawls from start to report
// vertices in other components.
func ValidateGraph(g ports.GraphProvider, start domain.Vertex) Report {
	var r Report
	n := g.VertexCount()
	if n == 0 {
		r.Errors = append(r.Errors, "graph has no vertices")
		return r
	}
	if start < 0 || int(start) >= n {
		r.Errors = append(r.Errors, fmt.Sprintf("start vertex %d out of range [0,%d)", start, n))
		return r
	}
	labels, _ := g.(ports.Labeler)
	name := func(v domain.Vertex) string {
		if labels != nil {
			return fmt.Sprintf("%d '%s'", v, labels.VertexLabel(v))
		}
		return fmt.Sprint(v)
	}

	type pair struct{ a, b domain.Vertex }
	seen := make(map[pair]domain.Edge)
	for i := range g.EdgeCount() {
		e := domain.Edge(i)
		a, b := g.EdgeEndpoints(e)
		if a < 0 || int(a) >= n || b < 0 || int(b) >= n {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d joins missing vertex (%d, %d)", e, a, b))
			continue
		}
		w := g.EdgeWeight(e)
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d has non-finite weight %v", e, w))
		case w < 0:
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d has negative weight %g", e, w))
		}
		if a == b {
			r.Warnings = append(r.Warnings, fmt.Sprintf("edge %d is a self-loop on vertex %s", e, name(a)))
			continue
		}
		k := pair{min(a, b), max(a, b)}
		if first, dup := seen[k]; dup {
			r.Warnings = append(r.Warnings, fmt.Sprintf("edge %d duplicates edge %d between %s and %s", e, first, name(a), name(b)))
		} else {
			seen[k] = e
		}
	}

	if labels != nil {
		byLabel := make(map[string]domain.Vertex, n)
		for i := range n {
			v := domain.Vertex(i)
			l := labels.VertexLabel(v)
			if l == "" {
				continue
			}
			if prev, dup := byLabel[l]; dup {
				r.Warnings = append(r.Warnings, fmt.Sprintf("vertices %d and %d share label '%s'", prev, v, l))
				continue
			}
			byLabel[l] = v
		}
	}

	visited := make([]bool, n)
	visited[start] = true
	queue := []domain.Vertex{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.AdjacentEdges(v) {
			u := ports.OtherEnd(g, e, v)
			if u < 0 || int(u) >= n || visited[u] {
				continue
			}
			visited[u] = true
			queue = append(queue, u)
		}
	}
	for i, ok := range visited {
		if !ok {
			r.Unreachable++
			if len(g.AdjacentEdges(domain.Vertex(i))) == 0 {
				r.Warnings = append(r.Warnings, fmt.Sprintf("vertex %s is isolated", name(domain.Vertex(i))))
			}
		}
	}
	if r.Unreachable > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d of %d vertices are unreachable from %s", r.Unreachable, n, name(start)))
	}
	return r
}
