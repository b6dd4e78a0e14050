package queue

import (
	"container/heap"
	"iter"

	"github.com/roach88/cauldron/internal/recipe"
)

// Queue is a priority queue of modifications.
type Queue struct {
	h     entryHeap
	byID  map[string]*entry
	clock *Clock
	ids   recipe.IDGenerator
}

// Option configures a Queue.
type Option func(*Queue)

// WithIDGenerator sets the generator for new version ids created by
// ApplyNext. Defaults to UUIDv7.
func WithIDGenerator(gen recipe.IDGenerator) Option {
	return func(q *Queue) { q.ids = gen }
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		byID:  make(map[string]*entry),
		clock: NewClock(),
		ids:   recipe.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Len returns the number of queued modifications.
func (q *Queue) Len() int {
	return len(q.h)
}

// Enqueue inserts m in O(log n).
//
// Returns a Validation error if m is malformed (no id, no operation) or
// its id is already queued.
func (q *Queue) Enqueue(m recipe.Modification) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := q.byID[m.ID]; exists {
		return recipe.NewValidationError("modification %s already queued", m.ID)
	}
	q.push(&entry{mod: m.Clone(), seq: q.clock.Next()})
	return nil
}

func (q *Queue) push(e *entry) {
	heap.Push(&q.h, e)
	q.byID[e.mod.ID] = e
}

// DequeueHighestPriority removes and returns the next modification:
// lowest priority value first, ties in insertion order.
// ok is false when the queue is empty.
func (q *Queue) DequeueHighestPriority() (m recipe.Modification, ok bool) {
	e, ok := q.pop()
	if !ok {
		return recipe.Modification{}, false
	}
	return e.mod, true
}

func (q *Queue) pop() (*entry, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	e := heap.Pop(&q.h).(*entry)
	delete(q.byID, e.mod.ID)
	return e, true
}

// Peek returns the next modification without removing it.
func (q *Queue) Peek() (recipe.Modification, bool) {
	if len(q.h) == 0 {
		return recipe.Modification{}, false
	}
	return q.h[0].mod.Clone(), true
}

// Get returns a queued modification by id.
func (q *Queue) Get(id string) (recipe.Modification, error) {
	e, ok := q.byID[id]
	if !ok {
		return recipe.Modification{}, recipe.NewNotFound("modification", id)
	}
	return e.mod.Clone(), nil
}

// ReRank changes the priority of a queued modification and restores heap
// order. The modification keeps its insertion sequence, so among equal
// priorities it is still ordered by when it was first enqueued.
// Returns NotFound if id is not queued.
func (q *Queue) ReRank(id string, priority int) error {
	e, ok := q.byID[id]
	if !ok {
		return recipe.NewNotFound("modification", id)
	}
	e.mod.Priority = priority
	heap.Fix(&q.h, e.index)
	return nil
}

// ListPending returns the queued modifications in serving order.
//
// The sequence is lazy and non-mutating: each iteration pops from a private
// copy of the heap, so ranging again restarts from the front and the queue
// itself is untouched. Modifications enqueued after iteration starts are
// not visited.
func (q *Queue) ListPending() iter.Seq[recipe.Modification] {
	return func(yield func(recipe.Modification) bool) {
		snapshot := make(entryHeap, len(q.h))
		for i, e := range q.h {
			cp := *e
			snapshot[i] = &cp
		}
		for len(snapshot) > 0 {
			e := heap.Pop(&snapshot).(*entry)
			if !yield(e.mod.Clone()) {
				return
			}
		}
	}
}

// Pending collects ListPending into a slice.
func (q *Queue) Pending() []recipe.Modification {
	out := make([]recipe.Modification, 0, len(q.h))
	for m := range q.ListPending() {
		out = append(out, m)
	}
	return out
}
