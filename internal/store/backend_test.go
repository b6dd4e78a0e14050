package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cauldron/internal/graph"
	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/staging"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"file":   NewFileBackend(filepath.Join(t.TempDir(), "state")),
		"sqlite": createTestStore(t),
	}
}

// populated returns a graph with a root and three committed versions, and a
// queue holding two pending modifications.
func populated(t *testing.T) (*graph.Graph, *queue.Queue) {
	t.Helper()
	root := recipe.New("Banana Bread",
		recipe.WithIngredients(recipe.NewIngredient("banana", 3, "")),
		recipe.WithInstructions("Mash bananas"),
	)
	g, err := graph.New(root)
	require.NoError(t, err)

	q := queue.New()
	for i, op := range []recipe.EditOperation{
		recipe.AddTag("dessert"),
		recipe.AddIngredient(recipe.NewIngredient("flour", 2, "cup")),
		recipe.AddInstruction("Bake for 60 minutes"),
	} {
		require.NoError(t, q.Enqueue(recipe.MustModification(i, op)))
	}
	_, err = q.ApplyAll(g)
	require.NoError(t, err)
	require.Equal(t, 4, g.Size())

	require.NoError(t, q.Enqueue(recipe.MustModification(2, recipe.AddTag("later"))))
	require.NoError(t, q.Enqueue(recipe.MustModification(1, recipe.AddTag("sooner"))))
	return g, q
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g, q := populated(t)
			buf := staging.New()
			require.NoError(t, buf.PushURL("https://example.com/bread"))
			require.NoError(t, buf.PushDocument(recipe.New("Scones")))

			require.NoError(t, b.Save(ctx, recipe.KindGraph, g))
			require.NoError(t, b.Save(ctx, recipe.KindQueue, q))
			require.NoError(t, b.Save(ctx, recipe.KindBuffer, buf))

			g2 := graph.NewEmpty()
			require.NoError(t, b.Load(ctx, recipe.KindGraph, g2))
			assert.Equal(t, g.IDs(), g2.IDs())
			assert.Equal(t, g.Edges(), g2.Edges())
			assert.Equal(t, g.HeadID(), g2.HeadID())

			q2 := queue.New()
			require.NoError(t, b.Load(ctx, recipe.KindQueue, q2))
			assert.Equal(t, q.Pending(), q2.Pending())

			buf2 := staging.New()
			require.NoError(t, b.Load(ctx, recipe.KindBuffer, buf2))
			assert.Equal(t, buf.URLs(), buf2.URLs())
			assert.Equal(t, buf.Documents(), buf2.Documents())
		})
	}
}

func TestBackend_LoadMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := b.Load(ctx, recipe.KindGraph, graph.NewEmpty())
			require.Error(t, err)
			assert.True(t, recipe.IsNotFound(err), "got %v", err)
		})
	}
}

func TestBackend_KindMismatchIsDecodeFailure(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g, _ := populated(t)
			require.NoError(t, b.Save(ctx, recipe.KindGraph, g))

			// Fine at the backend level, rejected by the queue's Restore.
			err := b.Load(ctx, recipe.KindGraph, queue.New())
			require.Error(t, err)
			assert.True(t, recipe.IsDecodeFailure(err), "got %v", err)
		})
	}
}

func TestBackend_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			q := queue.New()
			require.NoError(t, b.Save(ctx, recipe.KindQueue, q))
			require.NoError(t, q.Enqueue(recipe.MustModification(0, recipe.AddTag("x"))))
			require.NoError(t, b.Save(ctx, recipe.KindQueue, q))

			q2 := queue.New()
			require.NoError(t, b.Load(ctx, recipe.KindQueue, q2))
			assert.Equal(t, 1, q2.Len())
		})
	}
}

func TestFresh(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, kind := range Kinds {
				s, err := Fresh(ctx, b, kind)
				require.NoError(t, err)
				require.NotNil(t, s)

				restored, err := EmptyInstance(kind)
				require.NoError(t, err)
				require.NoError(t, b.Load(ctx, kind, restored))
			}
		})
	}
}

func TestEmptyInstance_UnknownKind(t *testing.T) {
	_, err := EmptyInstance("recipe_box")
	require.Error(t, err)
	assert.True(t, recipe.IsValidation(err))
}

func TestLoadFile_CorruptIsDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version_graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind": "version_graph", "format_`), 0o644))

	g := graph.NewEmpty()
	err := LoadFile(path, g)
	require.Error(t, err)
	assert.True(t, recipe.IsDecodeFailure(err), "got %v", err)
	assert.Equal(t, 0, g.Size())
}

func TestSaveFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "modification_queue.json")

	require.NoError(t, SaveFile(path, queue.New()))
	require.NoError(t, SaveFile(path, queue.New()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "modification_queue.json", entries[0].Name())
}

func TestFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staging_buffer.json")

	s, err := FreshFile(path, recipe.KindBuffer)
	require.NoError(t, err)
	_, ok := s.(*staging.Buffer)
	assert.True(t, ok)

	buf := staging.New()
	require.NoError(t, LoadFile(path, buf))
	docs, urls := buf.Len()
	assert.Zero(t, docs)
	assert.Zero(t, urls)
}

func TestStore_History(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	g, q := populated(t)
	require.NoError(t, s.Save(ctx, recipe.KindGraph, g))
	require.NoError(t, s.Save(ctx, recipe.KindQueue, q))
	require.NoError(t, s.Save(ctx, recipe.KindGraph, g))

	history, err := s.History(ctx, recipe.KindGraph)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Less(t, history[0].Seq, history[1].Seq)
	assert.Equal(t, history[0].Checksum, history[1].Checksum)
	assert.Positive(t, history[0].Size)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&rows))
	assert.Equal(t, 2, rows)
}

func TestStore_ChecksumMismatchIsDecodeFailure(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	g, _ := populated(t)
	require.NoError(t, s.Save(ctx, recipe.KindGraph, g))
	_, err := s.db.Exec("UPDATE snapshots SET checksum = 'deadbeef' WHERE kind = ?", recipe.KindGraph)
	require.NoError(t, err)

	err = s.Load(ctx, recipe.KindGraph, graph.NewEmpty())
	require.Error(t, err)
	assert.True(t, recipe.IsDecodeFailure(err), "got %v", err)
}

func TestStore_SaveRejectsWrongKind(t *testing.T) {
	s := createTestStore(t)

	err := s.Save(context.Background(), recipe.KindQueue, graph.NewEmpty())
	require.Error(t, err)
	assert.True(t, recipe.IsValidation(err))
}
