package graph

import (
	"fmt"

	"github.com/roach88/cauldron/internal/recipe"
)

// graphData is the persisted form. Nodes are kept in commit order so that
// a restored graph lists versions exactly as the original did.
type graphData struct {
	Nodes []recipe.Recipe `json:"nodes"`
	Edges []Edge          `json:"edges"`
	Head  string          `json:"head"`
}

// Snapshot serializes the node set, edge set and head pointer.
func (g *Graph) Snapshot() ([]byte, error) {
	data := graphData{
		Nodes: make([]recipe.Recipe, 0, len(g.order)),
		Edges: g.Edges(),
		Head:  g.head,
	}
	for _, id := range g.order {
		data.Nodes = append(data.Nodes, g.nodes[id])
	}
	return recipe.EncodeEnvelope(recipe.KindGraph, data)
}

// Restore replaces the graph's state with a snapshot. A non-empty graph has
// exactly one root. The graph is left
// unchanged when the snapshot is corrupt or violates a graph invariant;
// both cases return a DecodeFailure.
func (g *Graph) Restore(b []byte) error {
	var data graphData
	if err := recipe.DecodeEnvelope(b, recipe.KindGraph, &data); err != nil {
		return err
	}

	fresh := NewEmpty()
	for _, n := range data.Nodes {
		if n.ID == "" {
			return recipe.NewDecodeFailure("decode version_graph: node without id", nil)
		}
		if fresh.Has(n.ID) {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: duplicate node %s", n.ID), nil)
		}
		fresh.nodes[n.ID] = n.Clone()
		fresh.order = append(fresh.order, n.ID)
	}
	for _, e := range data.Edges {
		if !fresh.Has(e.Parent) || !fresh.Has(e.Child) {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: dangling edge %s -> %s", e.Parent, e.Child), nil)
		}
		if _, ok := fresh.parent[e.Child]; ok {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: node %s has two parents", e.Child), nil)
		}
		fresh.parent[e.Child] = e.Parent
		fresh.children[e.Parent] = append(fresh.children[e.Parent], e.Child)
	}
	if err := fresh.checkAcyclic(); err != nil {
		return err
	}
	if roots := fresh.Roots(); fresh.Size() > 0 && len(roots) != 1 {
		return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: %d roots, want 1", len(roots)), nil)
	}

	switch {
	case data.Head == "" && fresh.Size() > 0:
		return recipe.NewDecodeFailure("decode version_graph: missing head", nil)
	case data.Head != "" && !fresh.Has(data.Head):
		return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: head %s is not a node", data.Head), nil)
	}
	fresh.head = data.Head

	*g = *fresh
	return nil
}

// checkAcyclic walks each node's parent chain. With at most one parent per
// node, a cycle shows up as a chain longer than the node count.
func (g *Graph) checkAcyclic() error {
	for _, id := range g.order {
		steps := 0
		for cur, ok := id, true; ok; cur, ok = g.parent[cur] {
			steps++
			if steps > len(g.order) {
				return recipe.NewDecodeFailure(fmt.Sprintf("decode version_graph: cycle through %s", id), nil)
			}
		}
	}
	return nil
}
