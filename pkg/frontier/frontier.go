// Package frontier holds the discovered-but-unresolved records of a traversal.
//
// Every variant exposes the same operations; only the removal order differs:
//
//   - Queue: first in, first out (breadth-first).
//   - Stack: last in, first out (depth-first).
//   - Random: uniformly random pick from a seeded source (random-first).
//   - PriorityQueue: minimum Value first, ties broken by insertion order
//     (Dijkstra, A*, Prim).
//
// Duplicate destinations are allowed; the engine resolves them on removal.
package frontier

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/travspan/pkg/domain"
)

// Frontier is the ordered container of pending records.
type Frontier interface {
	Insert(r domain.Record)
	// RemoveNext returns domain.ErrEmptyFrontier, and leaves the frontier untouched, when empty.
	RemoveNext() (domain.Record, error)
	IsEmpty() bool
	Len() int
	// ContainsVertex reports whether any held record leads to v. Linear in Len.
	ContainsVertex(v domain.Vertex) bool
	Kind() domain.FrontierKind
	// Name is a display name such as "Discovered Queue".
	Name() string
	// Records returns a copy of the held records in removal order where that order is known.
	Records() []domain.Record
}

// New builds the frontier for kind. rng is only used by the random variant and may be nil otherwise.
func New(kind domain.FrontierKind, rng *rand.Rand) (Frontier, error) {
	switch kind {
	case domain.FrontierQueue:
		return NewQueue(), nil
	case domain.FrontierStack:
		return NewStack(), nil
	case domain.FrontierRandom:
		if rng == nil {
			return nil, fmt.Errorf("%w: random frontier needs a source", domain.ErrInvalidConfiguration)
		}
		return NewRandom(rng), nil
	case domain.FrontierPriority:
		return NewPriorityQueue(nil), nil
	}
	return nil, fmt.Errorf("%w: unknown frontier kind %q", domain.ErrInvalidConfiguration, kind)
}

// records is the slice shared by the list based variants.
type records []domain.Record

func (rs records) containsVertex(v domain.Vertex) bool {
	for _, r := range rs {
		if r.To == v {
			return true
		}
	}
	return false
}
