package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cauldron/internal/recipe"
)

// buildBranched builds a 5-node graph with two branches off the root:
//
//	root -> a -> b
//	root -> c -> d   (head = d)
func buildBranched(t *testing.T) *Graph {
	t.Helper()
	r := root()
	g, err := New(r)
	require.NoError(t, err)

	a := child(t, r, recipe.AddTag("a"))
	_, err = g.AddChild("", a)
	require.NoError(t, err)
	b := child(t, a, recipe.AddInstruction("Bake"))
	_, err = g.AddChild("", b)
	require.NoError(t, err)

	require.NoError(t, g.RetargetHead(r.ID))
	c := child(t, r, recipe.AddIngredient(recipe.NewIngredient("walnuts", 0.5, "cup")))
	_, err = g.AddChild("", c)
	require.NoError(t, err)
	d := child(t, c, recipe.UpdateIngredient("banana", nil, nil))
	_, err = g.AddChild("", d)
	require.NoError(t, err)

	require.Equal(t, 5, g.Size())
	return g
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	g := buildBranched(t)

	data, err := g.Snapshot()
	require.NoError(t, err)

	restored := NewEmpty()
	require.NoError(t, restored.Restore(data))

	assert.Equal(t, g.HeadID(), restored.HeadID())
	assert.Equal(t, g.IDs(), restored.IDs())
	assert.ElementsMatch(t, g.Edges(), restored.Edges())
	for _, id := range g.IDs() {
		want, err := g.Get(id)
		require.NoError(t, err)
		got, err := restored.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, g.Children(g.Roots()[0]), restored.Children(restored.Roots()[0]))
}

func TestSnapshotRestore_EmptyGraph(t *testing.T) {
	data, err := NewEmpty().Snapshot()
	require.NoError(t, err)

	g, err := New(root())
	require.NoError(t, err)
	require.NoError(t, g.Restore(data))
	assert.Equal(t, 0, g.Size())
}

func TestSnapshot_SelfDescribing(t *testing.T) {
	data, err := buildBranched(t).Snapshot()
	require.NoError(t, err)

	var env recipe.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, recipe.KindGraph, env.Kind)
	assert.Equal(t, recipe.FormatVersion, env.FormatVersion)
}

func TestRestore_Corrupt(t *testing.T) {
	g := buildBranched(t)
	before := g.IDs()

	tests := map[string]string{
		"not json":       `{{{`,
		"wrong kind":     `{"kind":"staging_buffer","format_version":1,"data":{}}`,
		"wrong version":  `{"kind":"version_graph","format_version":99,"data":{}}`,
		"missing data":   `{"kind":"version_graph","format_version":1}`,
		"dangling edge":  `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a","name":"x"}],"edges":[{"parent":"a","child":"zz"}],"head":"a"}}`,
		"head not node":  `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a","name":"x"}],"edges":[],"head":"b"}}`,
		"missing head":   `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a","name":"x"}],"edges":[],"head":""}}`,
		"duplicate node": `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a","name":"x"},{"id":"a","name":"y"}],"edges":[],"head":"a"}}`,
		"two parents":    `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a"},{"id":"b"},{"id":"c"}],"edges":[{"parent":"a","child":"c"},{"parent":"b","child":"c"}],"head":"a"}}`,
		"two roots":      `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a"},{"id":"b"}],"edges":[],"head":"a"}}`,
		"cycle":          `{"kind":"version_graph","format_version":1,"data":{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"parent":"a","child":"b"},{"parent":"b","child":"a"}],"head":"a"}}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			err := g.Restore([]byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, recipe.ErrDecodeFailure)
			assert.Equal(t, before, g.IDs(), "graph must be unchanged after failed restore")
		})
	}
}
