package frontier

import (
	"math/rand/v2"
	"slices"

	"github.com/aretw0/travspan/pkg/domain"
)

// Queue removes records in insertion order.
type Queue struct {
	items records
	head  int
}

// NewQueue returns an empty FIFO frontier.
func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Insert(r domain.Record) { q.items = append(q.items, r) }

func (q *Queue) RemoveNext() (domain.Record, error) {
	if q.IsEmpty() {
		return domain.Record{}, domain.ErrEmptyFrontier
	}
	r := q.items[q.head]
	q.head++
	// Compact once the consumed prefix dominates the backing array.
	if q.head > 32 && q.head*2 > len(q.items) {
		q.items = append(records(nil), q.items[q.head:]...)
		q.head = 0
	}
	return r, nil
}

func (q *Queue) IsEmpty() bool                       { return q.Len() == 0 }
func (q *Queue) Len() int                            { return len(q.items) - q.head }
func (q *Queue) ContainsVertex(v domain.Vertex) bool { return q.items[q.head:].containsVertex(v) }
func (q *Queue) Kind() domain.FrontierKind           { return domain.FrontierQueue }
func (q *Queue) Name() string                        { return "Discovered Queue" }

func (q *Queue) Records() []domain.Record {
	return slices.Clone(q.items[q.head:])
}

// Stack removes the most recently inserted record first.
type Stack struct {
	items records
}

// NewStack returns an empty LIFO frontier.
func NewStack() *Stack { return &Stack{} }

func (s *Stack) Insert(r domain.Record) { s.items = append(s.items, r) }

func (s *Stack) RemoveNext() (domain.Record, error) {
	if s.IsEmpty() {
		return domain.Record{}, domain.ErrEmptyFrontier
	}
	last := len(s.items) - 1
	r := s.items[last]
	s.items = s.items[:last]
	return r, nil
}

func (s *Stack) IsEmpty() bool                       { return len(s.items) == 0 }
func (s *Stack) Len() int                            { return len(s.items) }
func (s *Stack) ContainsVertex(v domain.Vertex) bool { return s.items.containsVertex(v) }
func (s *Stack) Kind() domain.FrontierKind           { return domain.FrontierStack }
func (s *Stack) Name() string                        { return "Discovered Stack" }

// Records returns the stack top first.
func (s *Stack) Records() []domain.Record {
	out := slices.Clone(s.items)
	slices.Reverse(out)
	return out
}

// Random removes a uniformly chosen record. The source is injected so runs are reproducible.
type Random struct {
	items records
	rng   *rand.Rand
}

// NewRandom returns an empty random-pick frontier drawing from rng.
func NewRandom(rng *rand.Rand) *Random { return &Random{rng: rng} }

func (l *Random) Insert(r domain.Record) { l.items = append(l.items, r) }

func (l *Random) RemoveNext() (domain.Record, error) {
	if l.IsEmpty() {
		return domain.Record{}, domain.ErrEmptyFrontier
	}
	i := l.rng.IntN(len(l.items))
	r := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	return r, nil
}

func (l *Random) IsEmpty() bool                       { return len(l.items) == 0 }
func (l *Random) Len() int                            { return len(l.items) }
func (l *Random) ContainsVertex(v domain.Vertex) bool { return l.items.containsVertex(v) }
func (l *Random) Kind() domain.FrontierKind           { return domain.FrontierRandom }
func (l *Random) Name() string                        { return "Discovered List" }

// Records returns the held records in insertion order.
func (l *Random) Records() []domain.Record {
	return slices.Clone(l.items)
}
