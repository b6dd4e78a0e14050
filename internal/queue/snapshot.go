package queue

import (
	"container/heap"
	"fmt"

	"github.com/roach88/cauldron/internal/recipe"
)

type queuedEntry struct {
	Seq          int64               `json:"seq"`
	Modification recipe.Modification `json:"modification"`
}

// queueData is the persisted form. Entries are stored in serving order.
type queueData struct {
	Clock   int64         `json:"clock"`
	Entries []queuedEntry `json:"entries"`
}

// Snapshot serializes every queued modification with its priority and
// insertion sequence, plus the clock position.
func (q *Queue) Snapshot() ([]byte, error) {
	data := queueData{Clock: q.clock.Current(), Entries: make([]queuedEntry, 0, len(q.h))}

	ordered := make(entryHeap, len(q.h))
	for i, e := range q.h {
		cp := *e
		ordered[i] = &cp
	}
	for len(ordered) > 0 {
		e := heap.Pop(&ordered).(*entry)
		data.Entries = append(data.Entries, queuedEntry{Seq: e.seq, Modification: e.mod})
	}
	return recipe.EncodeEnvelope(recipe.KindQueue, data)
}

// Restore replaces the queue contents with a snapshot. The id generator is
// kept. On a DecodeFailure the queue is unchanged.
func (q *Queue) Restore(b []byte) error {
	var data queueData
	if err := recipe.DecodeEnvelope(b, recipe.KindQueue, &data); err != nil {
		return err
	}

	h := make(entryHeap, 0, len(data.Entries))
	byID := make(map[string]*entry, len(data.Entries))
	seqs := make(map[int64]bool, len(data.Entries))
	maxSeq := data.Clock
	for i, qe := range data.Entries {
		m := qe.Modification
		if m.ID == "" {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode modification_queue: entry %d has no id", i), nil)
		}
		if _, dup := byID[m.ID]; dup {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode modification_queue: duplicate modification %s", m.ID), nil)
		}
		if seqs[qe.Seq] {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode modification_queue: duplicate seq %d", qe.Seq), nil)
		}
		seqs[qe.Seq] = true
		e := &entry{mod: m, seq: qe.Seq, index: len(h)}
		h = append(h, e)
		byID[m.ID] = e
		if qe.Seq > maxSeq {
			maxSeq = qe.Seq
		}
	}
	heap.Init(&h)

	q.h = h
	q.byID = byID
	q.clock = NewClockAt(maxSeq)
	return nil
}
