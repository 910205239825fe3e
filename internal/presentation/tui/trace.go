package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/muesli/termenv"
)

var roleColors = map[domain.Role]string{
	domain.RoleVisiting:             "#facc15",
	domain.RoleDiscovered:           "#a855f7",
	domain.RoleAddedToTree:          "#ef4444",
	domain.RoleAddedEarlier:         "#f97316",
	domain.RoleDiscardedOnDiscovery: "#9ca3af",
	domain.RoleDiscardedOnRemoval:   "#6b7280",
	domain.RoleStartVertex:          "#22c55e",
	domain.RoleEndVertex:            "#ef4444",
	domain.RoleCurrentPath:          "#fb923c",
	domain.RoleFoundPath:            "#ff5bb8",
}

// componentPalette colours completed components in order.
var componentPalette = []string{
	"#008b8b", "#9932cc", "#dc143c", "#a0522d", "#ee82ee", "#9acd32", "#00ffff",
	"#1e90ff", "#7cfc00", "#00ff00", "#b22222", "#cd5c5c", "#4b0082", "#daa520",
}

// ComponentColor returns the colour of completed component i.
// Past the palette, colours are derived from the index so they stay stable.
func ComponentColor(i int) string {
	if i >= 0 && i < len(componentPalette) {
		return componentPalette[i]
	}
	h := uint32(i) * 2654435761
	return fmt.Sprintf("#%06x", h&0xffffff)
}

// Trace prints every marking and result notification as a coloured line.
// It implements ports.PresentationSink and ports.ResultsSink.
type Trace struct {
	mu     sync.Mutex
	out    *termenv.Output
	graph  ports.GraphProvider
	labels ports.Labeler
	// Markings also prints vertex and edge markings, not just results.
	Markings bool
}

// NewTrace writes to w. Colours follow the terminal profile of w,
// so redirected output stays plain.
func NewTrace(w io.Writer, g ports.GraphProvider, opts ...termenv.OutputOption) *Trace {
	t := &Trace{out: termenv.NewOutput(w, opts...), graph: g, Markings: true}
	t.labels, _ = g.(ports.Labeler)
	return t
}

func (t *Trace) OnVertexMarked(v domain.Vertex, m domain.Mark) {
	if !t.Markings {
		return
	}
	t.printf(t.style(m), "  vertex %s: %s", t.vertex(v), roleText(m))
}

func (t *Trace) OnEdgeMarked(e domain.Edge, m domain.Mark) {
	if !t.Markings {
		return
	}
	t.printf(t.style(m), "  edge %s: %s", t.edge(e), roleText(m))
}

func (t *Trace) OnTreeEntryAdded(r domain.Record, seq int) {
	via := "start"
	if !r.IsStart() {
		via = t.edge(r.Via)
	}
	t.printf(roleColors[domain.RoleAddedToTree], "+ tree #%d: %s via %s (%.3f)", seq, t.vertex(r.To), via, r.Value)
}

func (t *Trace) OnPathFound(p domain.Path) {
	t.printf(roleColors[domain.RoleFoundPath], "* path found: %d hops, cost %.3f", p.Hops, p.Cost)
}

func (t *Trace) OnRunFinished(reason domain.TerminationReason) {
	t.printf("", "= finished: %s", reason)
}

func (t *Trace) style(m domain.Mark) string {
	if m.Role == domain.RoleCompletedComponent {
		return ComponentColor(m.Component)
	}
	return roleColors[m.Role]
}

func (t *Trace) printf(color, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.out.String(fmt.Sprintf(format, args...))
	if color != "" {
		s = s.Foreground(t.out.Color(color))
	}
	fmt.Fprintln(t.out, s)
}

func (t *Trace) vertex(v domain.Vertex) string {
	if t.labels != nil {
		return fmt.Sprintf("#%d %s", v, t.labels.VertexLabel(v))
	}
	return fmt.Sprintf("#%d", v)
}

func (t *Trace) edge(e domain.Edge) string {
	a, b := t.graph.EdgeEndpoints(e)
	if t.labels != nil && t.labels.EdgeLabel(e) != "" {
		return fmt.Sprintf("#%d %s (%d-%d)", e, t.labels.EdgeLabel(e), a, b)
	}
	return fmt.Sprintf("#%d (%d-%d)", e, a, b)
}

func roleText(m domain.Mark) string {
	if m.Role == domain.RoleCompletedComponent {
		return fmt.Sprintf("%s %d", m.Role, m.Component)
	}
	return string(m.Role)
}
