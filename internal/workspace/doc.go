// Package workspace hosts one version graph, its modification queue and
// its staging buffer, and persists them through a store.Backend.
//
// The graph, queue and buffer carry no locks of their own. Workspace
// serializes every call with a single mutex, and snapshots are taken under
// that same mutex so a save never observes a half-applied modification.
//
// Lifecycle:
//
//	b, _ := workspace.OpenBackend(cfg)
//	ws, _ := workspace.Open(ctx, b)
//	defer ws.Close()
//	ws.StageDocument(doc)
//	ws.Promote()
//	ws.Enqueue(1, recipe.AddTag("dessert"))
//	ws.ApplyNext()
//	ws.Save(ctx)
package workspace
