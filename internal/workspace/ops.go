package workspace

import (
	"log/slog"

	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
)

// StageDocument pushes doc onto the staging buffer.
func (w *Workspace) StageDocument(doc recipe.Recipe) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.PushDocument(doc)
}

// StageURL pushes a source URL onto the staging buffer.
func (w *Workspace) StageURL(u string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.PushURL(u)
}

// Staged lists staged documents and URLs, most recent last.
func (w *Workspace) Staged() ([]recipe.Recipe, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.Documents(), w.buffer.URLs()
}

// Promote pops the most recently staged document into the graph. On an
// empty graph it becomes the root; otherwise it is committed as a child of
// head and head moves to it. Returns the new version id.
func (w *Workspace) Promote() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.buffer.PopDocument()
	if !ok {
		return "", recipe.NewEmpty("no staged documents")
	}
	parent := w.graph.HeadID()
	id, err := w.graph.AddChild("", doc)
	if err != nil {
		// Put it back so a failed promote loses nothing.
		if perr := w.buffer.PushDocument(doc); perr != nil {
			slog.Warn("failed to restage document", "id", doc.ID, "error", perr)
		}
		return "", err
	}
	slog.Info("document promoted", "id", id, "parent", parent, "name", doc.Name)
	return id, nil
}

// Enqueue builds a modification and queues it.
func (w *Workspace) Enqueue(priority int, op recipe.EditOperation) (recipe.Modification, error) {
	m, err := recipe.NewModification(priority, op)
	if err != nil {
		return recipe.Modification{}, err
	}
	if err := w.EnqueueModification(m); err != nil {
		return recipe.Modification{}, err
	}
	return m, nil
}

// EnqueueModification queues a modification built by the caller.
func (w *Workspace) EnqueueModification(m recipe.Modification) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.queue.Enqueue(m); err != nil {
		return err
	}
	slog.Debug("modification enqueued", "id", m.ID, "priority", m.Priority, "op", m.Operation.Describe())
	return nil
}

// ReRank changes the priority of a pending modification.
func (w *Workspace) ReRank(id string, priority int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.ReRank(id, priority)
}

// Pending lists queued modifications in serving order.
func (w *Workspace) Pending() []recipe.Modification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Pending()
}

// ApplyNext applies the next modification to head.
func (w *Workspace) ApplyNext() (queue.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.ApplyNext(w.graph)
}

// ApplyAll applies modifications until the queue is empty or one fails.
func (w *Workspace) ApplyAll() ([]queue.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.ApplyAll(w.graph)
}

// Checkout moves head to an existing version.
func (w *Workspace) Checkout(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.graph.RetargetHead(id); err != nil {
		return err
	}
	slog.Info("head moved", "id", id)
	return nil
}

// Head returns the current version.
func (w *Workspace) Head() (recipe.Recipe, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Head()
}

// Show returns the version with the given id.
func (w *Workspace) Show(id string) (recipe.Recipe, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Get(id)
}

// Log returns the versions from the root to head, inclusive.
func (w *Workspace) Log() ([]recipe.Recipe, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	head := w.graph.HeadID()
	if head == "" {
		return nil, recipe.NewEmpty("version graph has no versions")
	}
	ids, err := w.graph.Lineage(head)
	if err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		r, err := w.graph.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Stats summarizes workspace state.
type Stats struct {
	Versions   int    `json:"versions"`
	Head       string `json:"head"`
	Depth      int    `json:"depth"`
	Pending    int    `json:"pending"`
	Next       string `json:"next,omitempty"`
	StagedDocs int    `json:"staged_documents"`
	StagedURLs int    `json:"staged_urls"`
	Branches   int    `json:"branches"`
}

// Stats reports counts for status output.
func (w *Workspace) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	docs, urls := w.buffer.Len()
	leaves := 0
	for _, id := range w.graph.IDs() {
		if len(w.graph.Children(id)) == 0 {
			leaves++
		}
	}
	st := Stats{
		Versions:   w.graph.Size(),
		Head:       w.graph.HeadID(),
		Pending:    w.queue.Len(),
		StagedDocs: docs,
		StagedURLs: urls,
		Branches:   leaves,
	}
	if st.Head != "" {
		// Head is always a node, so Depth cannot fail here.
		st.Depth, _ = w.graph.Depth(st.Head)
	}
	if next, ok := w.queue.Peek(); ok {
		st.Next = next.String()
	}
	return st
}
