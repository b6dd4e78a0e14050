// Package graph implements the version graph: an append-only DAG of
// immutable recipe snapshots with a movable head.
//
// The graph is stored as a node table (id -> recipe) plus a separate
// child -> parent map. Nodes never reference each other directly, so a
// caller holding a recipe can never reach into the graph and mutate a
// committed version.
//
// Invariants:
//   - every node id is unique for the graph's lifetime
//   - head always names a present node (or is empty when the graph is empty)
//   - nodes and edges are never removed or replaced
//   - each AddChild adds exactly one node and, except for the root, one edge
//
// A node has at most one parent. Retargeting head to an older node and
// adding a child there creates a branch.
//
// Graph has no internal locking. Hosts that share one across goroutines
// must serialize access (see internal/workspace).
package graph
