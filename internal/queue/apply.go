package queue

import (
	"fmt"
	"log/slog"

	"github.com/roach88/cauldron/internal/graph"
	"github.com/roach88/cauldron/internal/recipe"
)

// Status describes the outcome of one ApplyNext call.
type Status string

const (
	// StatusEmpty means the queue had nothing to apply. Not an error.
	StatusEmpty Status = "empty"

	// StatusApplied means a new version was committed and head moved to it.
	StatusApplied Status = "applied"

	// StatusRejected means the modification carried no operation and was
	// dropped.
	StatusRejected Status = "rejected"

	// StatusFailed means the operation could not be applied to head (for
	// example removing an absent instruction) and was dropped.
	StatusFailed Status = "failed"
)

// Result reports what ApplyNext did.
type Result struct {
	Status       Status              `json:"status"`
	Modification recipe.Modification `json:"modification"`

	// ParentID is the head the modification was applied to.
	ParentID string `json:"parent_id,omitempty"`

	// VersionID is the new version's id when Status is StatusApplied.
	VersionID string `json:"version_id,omitempty"`

	// Changed reports whether the new version differs in content from its
	// parent. An applied update of an absent ingredient commits a version
	// with Changed=false.
	Changed bool `json:"changed"`
}

// ApplyNext dequeues one modification and applies it to g's head.
//
// An empty queue returns StatusEmpty and a nil error. A modification that
// is rejected or fails to apply is dropped and the error is returned with
// the Result. When g has no nodes, or the commit itself fails, the
// modification is put back with its original position and the error is
// returned.
func (q *Queue) ApplyNext(g *graph.Graph) (Result, error) {
	e, ok := q.pop()
	if !ok {
		return Result{Status: StatusEmpty}, nil
	}
	m := e.mod
	res := Result{Modification: m.Clone()}

	head, err := g.Head()
	if err != nil {
		q.push(e)
		return res, fmt.Errorf("apply modification %s: %w", m.ID, err)
	}
	res.ParentID = head.ID

	if err := m.Operation.Validate(); err != nil {
		res.Status = StatusRejected
		slog.Warn("modification rejected", "modification", m.ID, "head", head.ID, "error", err)
		return res, fmt.Errorf("apply modification %s: %w", m.ID, err)
	}

	next, applied, err := recipe.Apply(head, m.Operation)
	if err != nil {
		res.Status = StatusFailed
		slog.Warn("modification failed",
			"modification", m.ID,
			"op", m.Operation.Kind(),
			"head", head.ID,
			"error", err,
		)
		return res, fmt.Errorf("apply modification %s: %w", m.ID, err)
	}
	if !applied {
		res.Status = StatusRejected
		slog.Warn("modification rejected", "modification", m.ID, "head", head.ID)
		return res, fmt.Errorf("apply modification %s: %w", m.ID,
			recipe.NewValidationError("modification has no operation"))
	}

	changed, err := recipe.Changed(head, next)
	if err != nil {
		q.push(e)
		return res, fmt.Errorf("apply modification %s: %w", m.ID, err)
	}

	next.ID = q.ids.Generate()
	id, err := g.AddChild(head.ID, next)
	if err != nil {
		q.push(e)
		return res, fmt.Errorf("commit modification %s: %w", m.ID, err)
	}

	res.Status = StatusApplied
	res.VersionID = id
	res.Changed = changed

	slog.Info("version committed",
		"version", id,
		"parent", head.ID,
		"modification", m.ID,
		"op", m.Operation.Kind(),
		"priority", m.Priority,
		"changed", changed,
	)
	return res, nil
}

// ApplyAll applies modifications until the queue is empty, stopping at
// the first error. It returns the results of every call made, including
// the failing one.
func (q *Queue) ApplyAll(g *graph.Graph) ([]Result, error) {
	var results []Result
	for {
		res, err := q.ApplyNext(g)
		if res.Status == StatusEmpty && err == nil {
			return results, nil
		}
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
}
