package graph

import (
	"slices"

	"github.com/roach88/cauldron/internal/recipe"
)

// Edge links a parent version to a child derived from it by one modification.
type Edge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// Graph is the version graph.
type Graph struct {
	nodes    map[string]recipe.Recipe
	order    []string // insertion order
	parent   map[string]string
	children map[string][]string
	head     string
}

// NewEmpty creates a graph with no nodes.
// The first AddChild seeds the root.
func NewEmpty() *Graph {
	return &Graph{
		nodes:    make(map[string]recipe.Recipe),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
}

// New creates a single-node graph with head at root.
func New(root recipe.Recipe) (*Graph, error) {
	g := NewEmpty()
	if _, err := g.AddChild("", root); err != nil {
		return nil, err
	}
	return g, nil
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.order)
}

// HeadID returns the head node id, or "" for an empty graph.
func (g *Graph) HeadID() string {
	return g.head
}

// Head returns a copy of the head recipe.
// Returns an Empty error if the graph has no nodes.
func (g *Graph) Head() (recipe.Recipe, error) {
	if g.head == "" {
		return recipe.Recipe{}, recipe.NewEmpty("version graph has no nodes")
	}
	return g.nodes[g.head].Clone(), nil
}

// Get returns a copy of the recipe stored at id.
func (g *Graph) Get(id string) (recipe.Recipe, error) {
	r, ok := g.nodes[id]
	if !ok {
		return recipe.Recipe{}, recipe.NewNotFound("version", id)
	}
	return r.Clone(), nil
}

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddChild commits doc as a new node under parentID, or under head when
// parentID is empty, and moves head to it. On an empty graph with no
// parentID, doc becomes the root.
//
// Errors:
//   - NotFound if parentID is not a node
//   - InvariantViolation if doc has no id or its id is already committed
func (g *Graph) AddChild(parentID string, doc recipe.Recipe) (string, error) {
	if doc.ID == "" {
		return "", recipe.NewInvariantViolation("version has no id", "")
	}
	if _, exists := g.nodes[doc.ID]; exists {
		return "", recipe.NewInvariantViolation("version already committed", doc.ID)
	}

	if parentID == "" {
		parentID = g.head
	} else if _, ok := g.nodes[parentID]; !ok {
		return "", recipe.NewNotFound("parent version", parentID)
	}

	g.nodes[doc.ID] = doc.Clone()
	g.order = append(g.order, doc.ID)
	if parentID != "" {
		g.parent[doc.ID] = parentID
		g.children[parentID] = append(g.children[parentID], doc.ID)
	}
	g.head = doc.ID
	return doc.ID, nil
}

// RetargetHead moves head to id. Head is unchanged if id is not a node.
func (g *Graph) RetargetHead(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return recipe.NewNotFound("version", id)
	}
	g.head = id
	return nil
}

// Parent returns the parent of id. ok is false for roots and unknown ids.
func (g *Graph) Parent(id string) (string, bool) {
	p, ok := g.parent[id]
	return p, ok
}

// Children returns the children of id in commit order.
func (g *Graph) Children(id string) []string {
	return slices.Clone(g.children[id])
}

// IDs returns every node id in commit order.
func (g *Graph) IDs() []string {
	return slices.Clone(g.order)
}

// Roots returns the ids of nodes with no parent, in commit order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if _, ok := g.parent[id]; !ok {
			roots = append(roots, id)
		}
	}
	return roots
}

// Edges returns every parent -> child edge in child commit order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.parent))
	for _, id := range g.order {
		if p, ok := g.parent[id]; ok {
			edges = append(edges, Edge{Parent: p, Child: id})
		}
	}
	return edges
}

// Lineage returns the path from the root to id, inclusive.
func (g *Graph) Lineage(id string) ([]string, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, recipe.NewNotFound("version", id)
	}
	var path []string
	for cur, ok := id, true; ok; cur, ok = g.parent[cur] {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, nil
}

// Depth returns the number of edges between the root and id.
func (g *Graph) Depth(id string) (int, error) {
	path, err := g.Lineage(id)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}
