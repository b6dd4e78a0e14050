// Package queue implements the modification queue and the apply-to-graph
// step that turns queued modifications into committed versions.
//
// ORDERING:
// Lowest numeric priority is served first. Ties are broken by insertion
// order, stamped from a monotonic logical Clock. The same rule drives
// DequeueHighestPriority and ListPending, so what a user sees listed is
// exactly the order modifications will be applied in.
//
// APPLY:
// ApplyNext takes one modification, applies it to the graph head and, on
// success, commits the result as a new version with a fresh id under the
// previous head. At most one modification is applied per call.
//
// Queue has no internal locking. The single controller that owns a Queue
// and its Graph must serialize every call (see internal/workspace).
package queue
