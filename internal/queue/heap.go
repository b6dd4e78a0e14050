package queue

import "github.com/roach88/cauldron/internal/recipe"

// entry is one queued modification with its insertion sequence.
type entry struct {
	mod   recipe.Modification
	seq   int64
	index int
}

// before reports whether a is served before b.
func before(a, b *entry) bool {
	if a.mod.Priority != b.mod.Priority {
		return a.mod.Priority < b.mod.Priority
	}
	return a.seq < b.seq
}

// entryHeap implements container/heap.Interface.
type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return before(h[i], h[j]) }

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
