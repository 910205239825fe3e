package frontier

import (
	"container/heap"
	"slices"

	"github.com/aretw0/travspan/pkg/domain"
)

// LessFunc orders records in a priority queue.
type LessFunc func(a, b domain.Record) bool

// ByValue orders records by ascending Value.
func ByValue(a, b domain.Record) bool { return a.Value < b.Value }

// PriorityQueue removes the record with the smallest priority first.
// Records comparing equal are removed in insertion order, so runs are deterministic.
type PriorityQueue struct {
	h entryHeap
	// next is the insertion counter used for tie-breaking.
	next uint64
}

// NewPriorityQueue returns an empty min-priority frontier. A nil less orders by Value.
func NewPriorityQueue(less LessFunc) *PriorityQueue {
	if less == nil {
		less = ByValue
	}
	return &PriorityQueue{h: entryHeap{less: less}}
}

func (pq *PriorityQueue) Insert(r domain.Record) {
	heap.Push(&pq.h, entry{rec: r, order: pq.next})
	pq.next++
}

func (pq *PriorityQueue) RemoveNext() (domain.Record, error) {
	if pq.IsEmpty() {
		return domain.Record{}, domain.ErrEmptyFrontier
	}
	return heap.Pop(&pq.h).(entry).rec, nil
}

func (pq *PriorityQueue) IsEmpty() bool             { return len(pq.h.items) == 0 }
func (pq *PriorityQueue) Len() int                  { return len(pq.h.items) }
func (pq *PriorityQueue) Kind() domain.FrontierKind { return domain.FrontierPriority }
func (pq *PriorityQueue) Name() string              { return "Priority Queue" }

func (pq *PriorityQueue) ContainsVertex(v domain.Vertex) bool {
	for _, e := range pq.h.items {
		if e.rec.To == v {
			return true
		}
	}
	return false
}

// Records returns the held records sorted in removal order.
func (pq *PriorityQueue) Records() []domain.Record {
	sorted := slices.Clone(pq.h.items)
	slices.SortFunc(sorted, func(a, b entry) int {
		switch {
		case pq.h.before(a, b):
			return -1
		case pq.h.before(b, a):
			return 1
		}
		return 0
	})
	out := make([]domain.Record, len(sorted))
	for i, e := range sorted {
		out[i] = e.rec
	}
	return out
}

type entry struct {
	rec   domain.Record
	order uint64
}

// entryHeap implements heap.Interface for a min-heap of entries.
type entryHeap struct {
	items []entry
	less  LessFunc
}

func (h entryHeap) before(a, b entry) bool {
	if h.less(a.rec, b.rec) {
		return true
	}
	if h.less(b.rec, a.rec) {
		return false
	}
	return a.order < b.order
}

func (h entryHeap) Len() int           { return len(h.items) }
func (h entryHeap) Less(i, j int) bool { return h.before(h.items[i], h.items[j]) }
func (h entryHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *entryHeap) Push(x any) { h.items = append(h.items, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}
