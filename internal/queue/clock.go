package queue

import "sync/atomic"

// Clock is a monotonic logical clock stamping queue insertions.
//
// Sequence numbers break priority ties in insertion order and survive
// snapshot/restore, so a restored queue serves ties in the same order.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from start.
// Used by Restore to continue after the highest persisted sequence.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
