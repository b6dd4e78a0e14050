// Package harness runs recipe-evolution scenarios end to end.
//
// A scenario seeds a version graph with a root recipe, then drives a
// workspace through enqueue, rerank, apply, checkout and persist steps.
// Every step is recorded in a trace; the trace and the final head are
// compared against a golden file.
//
// # Scenario Format
//
//	name: banana_bread
//	description: "What this scenario validates"
//	root:
//	  name: Banana Bread
//	  ingredients:
//	    - {name: banana, quantity: 3}
//	steps:
//	  - enqueue: {priority: 2, op: {add_tag: dessert}}
//	  - rerank: {modification: m-1, priority: 0}
//	  - apply: true
//	    expect: {status: applied}
//	  - apply_all: true
//	  - checkout: root
//	  - persist: true
//	assertions:
//	  - type: head_tags
//	    values: [dessert]
//	  - type: version_count
//	    count: 2
//
// # Deterministic Testing
//
// The root recipe gets id "root" unless the file sets one. Modifications
// are numbered m-1, m-2, ... in enqueue order and committed versions v-1,
// v-2, ... in commit order. Each scenario runs against a fresh in-memory
// SQLite store, so persist steps exercise the real save/load path.
package harness
