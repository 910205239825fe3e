// Package runtime implements the traversal state machine shared by every algorithm.
//
// An Engine owns the state of one run. Each call to Step executes exactly one named
// transition, mutates the state, and returns the events produced by that transition.
// The engine has no I/O and no goroutines; callers adapt events to their sinks.
package runtime

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/frontier"
	"github.com/aretw0/travspan/pkg/ports"
)

// Option configures an Engine.
type Option func(*Engine)

// WithHeuristic overrides the A* heuristic. The default is domain.StraightLine.
func WithHeuristic(h domain.Heuristic) Option {
	return func(e *Engine) {
		if h != nil {
			e.policy.heuristic = h
		}
	}
}

// WithRand overrides the source of the random frontier. The default is seeded from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

type neighbor struct {
	to  domain.Vertex
	via domain.Edge
}

// Engine is the steppable traversal core.
type Engine struct {
	graph  ports.GraphProvider
	cfg    domain.Config
	caps   domain.Capabilities
	policy policy
	rng    *rand.Rand

	frontier frontier.Frontier

	added       []bool
	discoveredV []bool
	discoveredE []bool

	visiting    domain.Record
	hasVisiting bool
	pending     []neighbor
	neighbor    neighbor
	hasNeighbor bool

	// tree is every committed record in commit order. Append only.
	tree       []domain.Record
	compV      []domain.Vertex
	compE      []domain.Edge
	compCost   float64
	components []domain.Component
	path       *domain.Path

	counters domain.Counters
	cursor   int
	seq      int
	allDone  bool

	step    domain.StepName
	last    domain.StepName
	message string
	reason  domain.TerminationReason
	events  []domain.Event
}

// New validates cfg against g and returns an engine positioned at START.
func New(g ports.GraphProvider, cfg domain.Config, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph provider", domain.ErrInvalidConfiguration)
	}
	cfg, caps, err := cfg.Validate(g.VertexCount())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		graph: g,
		cfg:   cfg,
		caps:  caps,
		policy: policy{
			algorithm: cfg.Algorithm,
			graph:     g,
			end:       cfg.End,
			heuristic: domain.StraightLine,
		},
		step: domain.StepStart,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}

	e.frontier, err = frontier.New(caps.Frontier, e.rng)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Step executes the transition for the current step name.
// It returns the name of the step that ran and the events it produced.
// On error the engine state is unchanged.
func (e *Engine) Step() (domain.StepName, []domain.Event, error) {
	current := e.step
	if current == domain.StepDone {
		return current, nil, domain.ErrAlreadyTerminated
	}
	fn, ok := transitions[current]
	if !ok {
		return current, nil, fmt.Errorf("no transition for step %q", current)
	}

	e.events = nil
	next, msg, err := fn(e)
	if err != nil {
		e.events = nil
		return current, nil, fmt.Errorf("%s: %w", current, err)
	}

	e.last = current
	e.step = next
	e.message = msg
	e.counters.Steps++

	events := e.events
	e.events = nil
	return current, events, nil
}

// Current returns the name of the next step to execute.
func (e *Engine) Current() domain.StepName { return e.step }

// Done reports whether the run reached DONE.
func (e *Engine) Done() bool { return e.step == domain.StepDone }

// Config returns the validated configuration.
func (e *Engine) Config() domain.Config { return e.cfg }

// Reason returns the termination reason, empty until cleanup decided one.
func (e *Engine) Reason() domain.TerminationReason { return e.reason }

// Message returns the description of the last executed step.
func (e *Engine) Message() string { return e.message }

// Counters returns the running statistics.
func (e *Engine) Counters() domain.Counters { return e.counters }

// FrontierLen returns the number of records waiting in the frontier.
func (e *Engine) FrontierLen() int { return e.frontier.Len() }

// FrontierContains reports whether the frontier holds a record leading to v.
func (e *Engine) FrontierContains(v domain.Vertex) bool { return e.frontier.ContainsVertex(v) }

// Focus returns the vertex and edge the last step looked at: the neighbor under
// consideration inside the neighbor loop, the visiting record otherwise.
func (e *Engine) Focus() (domain.Vertex, domain.Edge) {
	switch e.last {
	case domain.StepNeighborsLoopIf, domain.StepNeighborsLoopIfTrue, domain.StepNeighborsLoopIfFalse:
		if e.hasNeighbor {
			return e.neighbor.to, e.neighbor.via
		}
	}
	if e.hasVisiting {
		return e.visiting.To, e.visiting.Via
	}
	return domain.NoVertex, domain.NoEdge
}

// Snapshot returns a read-only copy of the observable state.
func (e *Engine) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Config:       e.cfg,
		Step:         e.step,
		LastStep:     e.last,
		Message:      e.message,
		Frontier:     e.frontier.Records(),
		FrontierName: e.frontierName(),
		Counters:     e.counters,
		Done:         e.Done(),
		Reason:       e.reason,
	}
	if e.hasVisiting {
		v := e.visiting
		s.Visiting = &v
	}
	return s
}

// Result returns what the run has produced so far. It is final once Done is true.
func (e *Engine) Result() domain.Result {
	r := domain.Result{
		Reason:     e.reason,
		Tree:       append([]domain.Record(nil), e.tree...),
		Components: append([]domain.Component(nil), e.components...),
		TotalCost:  e.counters.TotalCost,
		Counters:   e.counters,
	}
	if e.path != nil {
		p := *e.path
		r.Path = &p
	}
	return r
}

func (e *Engine) frontierName() string {
	return e.cfg.Algorithm.Short() + " " + e.frontier.Name()
}

func (e *Engine) emit(ev domain.Event) {
	e.events = append(e.events, ev)
}

func (e *Engine) markVertex(v domain.Vertex, role domain.Role) {
	e.emit(domain.VertexMarked(v, domain.Mark{Role: role}))
}

func (e *Engine) markEdge(edge domain.Edge, role domain.Role) {
	e.emit(domain.EdgeMarked(edge, domain.Mark{Role: role}))
}

func (e *Engine) insert(r domain.Record) {
	r.Seq = e.seq
	e.seq++
	e.frontier.Insert(r)
}

func (e *Engine) discoverVertex(v domain.Vertex) {
	if !e.discoveredV[v] {
		e.discoveredV[v] = true
		e.counters.UndiscoveredVertices--
	}
}

func (e *Engine) discoverEdge(edge domain.Edge) {
	if !e.discoveredE[edge] {
		e.discoveredE[edge] = true
		e.counters.UndiscoveredEdges--
	}
}

// loopTop is where the outer search loop resumes, depending on the stopping mode.
func (e *Engine) loopTop() domain.StepName {
	if e.cfg.Mode == domain.StopAtEnd {
		return domain.StepCheckEndAdded
	}
	return domain.StepCheckComponentDone
}

// vertexRole keeps start and end recognisable whatever else happens to them.
func (e *Engine) vertexRole(v domain.Vertex, otherwise domain.Role) domain.Role {
	switch {
	case v == e.cfg.Start:
		return domain.RoleStartVertex
	case e.cfg.Mode == domain.StopAtEnd && v == e.cfg.End:
		return domain.RoleEndVertex
	}
	return otherwise
}

func (e *Engine) describe(v domain.Vertex) string {
	if l, ok := e.graph.(ports.Labeler); ok {
		if label := l.VertexLabel(v); label != "" {
			return fmt.Sprintf("#%d %s", v, label)
		}
	}
	return fmt.Sprintf("#%d", v)
}

func (e *Engine) describeEdge(edge domain.Edge) string {
	if l, ok := e.graph.(ports.Labeler); ok {
		if label := l.EdgeLabel(edge); label != "" {
			return label
		}
	}
	return fmt.Sprintf("edge %d", edge)
}

func (e *Engine) describeRecord(r domain.Record) string {
	if r.IsStart() {
		return fmt.Sprintf("%s (start, value %.3f)", e.describe(r.To), r.Value)
	}
	return fmt.Sprintf("%s via %s (value %.3f)", e.describe(r.To), e.describeEdge(r.Via), r.Value)
}
