package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cauldron/internal/recipe"
)

func mod(t *testing.T, priority int, tag string) recipe.Modification {
	t.Helper()
	m, err := recipe.NewModification(priority, recipe.AddTag(tag))
	require.NoError(t, err)
	return m
}

func ids(mods []recipe.Modification) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Operation.Describe()
	}
	return out
}

func TestQueue_LowestPriorityFirst(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(mod(t, 5, "five")))
	require.NoError(t, q.Enqueue(mod(t, 1, "one")))
	require.NoError(t, q.Enqueue(mod(t, 3, "three")))

	var got []int
	for {
		m, ok := q.DequeueHighestPriority()
		if !ok {
			break
		}
		got = append(got, m.Priority)
	}
	assert.Equal(t, []int{1, 3, 5}, got)
}

func TestQueue_TiesInInsertionOrder(t *testing.T) {
	q := New()
	a, b, c := mod(t, 2, "a"), mod(t, 2, "b"), mod(t, 2, "c")
	require.NoError(t, q.Enqueue(a))
	require.NoError(t, q.Enqueue(b))
	require.NoError(t, q.Enqueue(c))

	for _, want := range []string{a.ID, b.ID, c.ID} {
		m, ok := q.DequeueHighestPriority()
		require.True(t, ok)
		assert.Equal(t, want, m.ID)
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := New()
	_, ok := q.DequeueHighestPriority()
	assert.False(t, ok)
}

func TestQueue_EnqueueRejectsInvalid(t *testing.T) {
	q := New()

	err := q.Enqueue(recipe.Modification{ID: "m1", Priority: 1})
	assert.ErrorIs(t, err, recipe.ErrValidation)

	m := mod(t, 1, "x")
	require.NoError(t, q.Enqueue(m))
	err = q.Enqueue(m)
	assert.True(t, recipe.IsValidation(err))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ReRankThenDequeue(t *testing.T) {
	q := New()
	m := mod(t, 10, "target")
	require.NoError(t, q.Enqueue(mod(t, 3, "other")))
	require.NoError(t, q.Enqueue(m))

	require.NoError(t, q.ReRank(m.ID, 0))

	got, ok := q.DequeueHighestPriority()
	require.True(t, ok)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, 0, got.Priority)
}

func TestQueue_ReRankSingle(t *testing.T) {
	q := New()
	m := mod(t, 10, "only")
	require.NoError(t, q.Enqueue(m))
	require.NoError(t, q.ReRank(m.ID, 42))

	got, ok := q.DequeueHighestPriority()
	require.True(t, ok)
	assert.Equal(t, 42, got.Priority)
}

func TestQueue_ReRankKeepsInsertionOrderForTies(t *testing.T) {
	q := New()
	first, second := mod(t, 5, "first"), mod(t, 1, "second")
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))

	require.NoError(t, q.ReRank(first.ID, 1))

	got, _ := q.DequeueHighestPriority()
	assert.Equal(t, first.ID, got.ID)
}

func TestQueue_ReRankUnknown(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(mod(t, 1, "x")))

	err := q.ReRank("missing", 0)
	assert.ErrorIs(t, err, recipe.ErrNotFound)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ListPending_OrderMatchesDequeue(t *testing.T) {
	q := New()
	for i, p := range []int{4, 1, 3, 1, 2} {
		require.NoError(t, q.Enqueue(mod(t, p, string(rune('a'+i)))))
	}

	listed := q.Pending()
	assert.Equal(t, 5, q.Len(), "listing must not consume the queue")

	var dequeued []recipe.Modification
	for {
		m, ok := q.DequeueHighestPriority()
		if !ok {
			break
		}
		dequeued = append(dequeued, m)
	}
	assert.Equal(t, ids(dequeued), ids(listed))
	assert.Equal(t, []string{`add tag "b"`, `add tag "d"`, `add tag "e"`, `add tag "c"`, `add tag "a"`}, ids(listed))
}

func TestQueue_ListPending_RestartableAndLazy(t *testing.T) {
	q := New()
	for _, p := range []int{3, 2, 1} {
		require.NoError(t, q.Enqueue(mod(t, p, "x")))
	}
	seq := q.ListPending()

	var first []int
	for m := range seq {
		first = append(first, m.Priority)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, first)

	var second []int
	for m := range seq {
		second = append(second, m.Priority)
	}
	assert.Equal(t, []int{1, 2, 3}, second)
}

func TestQueue_ListPending_ReturnsCopies(t *testing.T) {
	q := New()
	m := mod(t, 1, "x")
	require.NoError(t, q.Enqueue(m))

	for listed := range q.ListPending() {
		*listed.Operation.AddTag = "changed"
	}

	got, err := q.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", *got.Operation.AddTag)
}

func TestQueue_PeekAndGet(t *testing.T) {
	q := New()
	_, ok := q.Peek()
	assert.False(t, ok)

	m := mod(t, 1, "x")
	require.NoError(t, q.Enqueue(m))
	p, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, m.ID, p.ID)
	assert.Equal(t, 1, q.Len())

	_, err := q.Get("nope")
	assert.True(t, recipe.IsNotFound(err))
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	r := NewClockAt(10)
	assert.Equal(t, int64(11), r.Next())
}
