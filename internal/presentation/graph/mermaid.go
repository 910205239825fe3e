package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// Overlay contains run state to visualize on the graph.
type Overlay struct {
	Start     domain.Vertex
	End       domain.Vertex
	TreeEdges []domain.Edge
	PathEdges []domain.Edge
	Current   domain.Vertex
}

// OverlayFromResult highlights what a finished run produced.
func OverlayFromResult(cfg domain.Config, res domain.Result) *Overlay {
	o := &Overlay{Start: cfg.Start, End: cfg.End, Current: domain.NoVertex}
	for _, r := range res.Tree {
		if !r.IsStart() {
			o.TreeEdges = append(o.TreeEdges, r.Via)
		}
	}
	if res.Path != nil {
		for _, r := range res.Path.Records {
			o.PathEdges = append(o.PathEdges, r.Via)
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of an undirected weighted graph.
// It applies semantic styling:
// - Start: ((Circle))
// - End: [[Subroutine]]
// - Default: [Rectangle]
// Tree and path edges from the overlay are drawn thick and coloured.
func GenerateMermaid(g ports.GraphProvider, overlay *Overlay) string {
	labels, _ := g.(ports.Labeler)
	if overlay == nil {
		overlay = &Overlay{Start: domain.NoVertex, End: domain.NoVertex, Current: domain.NoVertex}
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i := range g.VertexCount() {
		v := domain.Vertex(i)
		text := strconv.Itoa(i)
		if labels != nil {
			text = labels.VertexLabel(v)
		}
		text = strings.ReplaceAll(text, "\"", "'")

		opener, closer := "[", "]"
		switch v {
		case overlay.Start:
			opener, closer = "((", "))"
		case overlay.End:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", vertexID(v), opener, text, closer)
	}

	for i := range g.EdgeCount() {
		a, b := g.EdgeEndpoints(domain.Edge(i))
		w := strconv.FormatFloat(g.EdgeWeight(domain.Edge(i)), 'f', -1, 64)
		fmt.Fprintf(&sb, "    %s ---|\"%s\"| %s\n", vertexID(a), w, vertexID(b))
	}

	// Mermaid addresses links by declaration order, which is the edge index.
	inPath := make(map[domain.Edge]bool, len(overlay.PathEdges))
	for _, e := range overlay.PathEdges {
		inPath[e] = true
	}
	if len(overlay.TreeEdges) > 0 || len(overlay.PathEdges) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
	}
	for _, e := range overlay.TreeEdges {
		if !inPath[e] {
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#ef4444,stroke-width:3px;\n", e)
		}
	}
	for _, e := range overlay.PathEdges {
		fmt.Fprintf(&sb, "    linkStyle %d stroke:#ff5bb8,stroke-width:4px;\n", e)
	}

	if overlay.Current != domain.NoVertex {
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", vertexID(overlay.Current))
	}
	return sb.String()
}

func vertexID(v domain.Vertex) string {
	return "v" + strconv.Itoa(int(v))
}
