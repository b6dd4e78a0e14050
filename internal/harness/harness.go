package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/store"
	"github.com/roach88/cauldron/internal/workspace"
)

// RootID is the id given to a scenario's root recipe when it has none.
const RootID = "root"

// Harness is the scenario execution engine.
// It runs scenarios with a deterministic clock and id generators.
type Harness struct {
	store    *store.Store
	ws       *workspace.Workspace
	clock    *queue.Clock
	mods     *recipe.SequenceGenerator
	versions *recipe.SequenceGenerator
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and initialize a workspace
// 2. Stage the root recipe and promote it
// 3. Execute steps, checking expect clauses
// 4. Evaluate assertions against the trace and final state
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	h := &Harness{
		store:    st,
		clock:    queue.NewClock(),
		mods:     recipe.NewSequenceGenerator("m"),
		versions: recipe.NewSequenceGenerator("v"),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	h.ws, err = workspace.Init(ctx, st, workspace.WithIDGenerator(h.versions))
	if err != nil {
		return nil, fmt.Errorf("failed to init workspace: %w", err)
	}

	result := NewResult()
	if err := h.seed(scenario.Root, result); err != nil {
		return nil, fmt.Errorf("failed to seed root: %w", err)
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	if err := h.collectState(result); err != nil {
		return nil, fmt.Errorf("failed to collect final state: %w", err)
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) seed(root recipe.Recipe, result *Result) error {
	doc := root.Clone()
	if doc.ID == "" {
		doc.ID = RootID
	}
	if err := h.ws.StageDocument(doc); err != nil {
		return err
	}
	id, err := h.ws.Promote()
	if err != nil {
		return err
	}
	result.AddEvent(TraceEvent{Seq: h.clock.Next(), Step: StepPromote, Version: id})
	return nil
}

// executeStep runs one step. Errors the step's expect clause anticipates
// are recorded, not returned; only harness failures are returned.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	kind := step.Kind()
	var stepErr error

	switch kind {
	case StepEnqueue:
		m := recipe.Modification{
			ID:        h.mods.Generate(),
			Priority:  step.Enqueue.Priority,
			Operation: step.Enqueue.Op,
		}
		stepErr = h.ws.EnqueueModification(m)
		ev := TraceEvent{
			Seq:          h.clock.Next(),
			Step:         kind,
			Modification: m.ID,
			Priority:     ptr(m.Priority),
			Op:           m.Operation.Describe(),
		}
		result.AddEvent(withError(ev, stepErr))

	case StepReRank:
		stepErr = h.ws.ReRank(step.ReRank.Modification, step.ReRank.Priority)
		ev := TraceEvent{
			Seq:          h.clock.Next(),
			Step:         kind,
			Modification: step.ReRank.Modification,
			Priority:     ptr(step.ReRank.Priority),
		}
		result.AddEvent(withError(ev, stepErr))

	case StepApply:
		res, err := h.ws.ApplyNext()
		stepErr = err
		result.AddEvent(h.applyEvent(kind, res, err))
		if err := checkStatus(step.Expect, res); err != "" {
			result.AddError(fmt.Sprintf("steps[%d]: %s", i, err))
		}

	case StepApplyAll:
		results, err := h.ws.ApplyAll()
		stepErr = err
		for j, res := range results {
			var evErr error
			if j == len(results)-1 {
				evErr = err
			}
			result.AddEvent(h.applyEvent(kind, res, evErr))
		}
		if len(results) > 0 {
			if err := checkStatus(step.Expect, results[len(results)-1]); err != "" {
				result.AddError(fmt.Sprintf("steps[%d]: %s", i, err))
			}
		}

	case StepCheckout:
		stepErr = h.ws.Checkout(step.Checkout)
		ev := TraceEvent{Seq: h.clock.Next(), Step: kind, Version: step.Checkout}
		result.AddEvent(withError(ev, stepErr))

	case StepPersist:
		if err := h.ws.Save(ctx); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		reopened, err := workspace.Open(ctx, h.store, workspace.WithIDGenerator(h.versions))
		if err != nil {
			return fmt.Errorf("reopen: %w", err)
		}
		h.ws = reopened
		stats := h.ws.Stats()
		result.AddEvent(TraceEvent{
			Seq:      h.clock.Next(),
			Step:     kind,
			Version:  stats.Head,
			Versions: ptr(stats.Versions),
			Pending:  ptr(stats.Pending),
		})

	default:
		return fmt.Errorf("no action in step")
	}

	if msg := checkError(step.Expect, stepErr); msg != "" {
		result.AddError(fmt.Sprintf("steps[%d]: %s", i, msg))
	}

	h.logger.Info("step completed", "step", i, "kind", kind, "error", stepErr)
	return nil
}

func (h *Harness) applyEvent(kind string, res queue.Result, err error) TraceEvent {
	ev := TraceEvent{
		Seq:          h.clock.Next(),
		Step:         kind,
		Status:       string(res.Status),
		Modification: res.Modification.ID,
		Parent:       res.ParentID,
		Version:      res.VersionID,
	}
	if res.Status == queue.StatusApplied {
		ev.Changed = ptr(res.Changed)
	}
	return withError(ev, err)
}

func (h *Harness) collectState(result *Result) error {
	head, err := h.ws.Head()
	if err != nil {
		return err
	}
	versions, err := h.ws.Log()
	if err != nil {
		return err
	}
	result.Head = head
	for _, v := range versions {
		result.Lineage = append(result.Lineage, v.ID)
	}
	stats := h.ws.Stats()
	result.Versions = stats.Versions
	result.Pending = stats.Pending
	return nil
}

func withError(ev TraceEvent, err error) TraceEvent {
	if err != nil {
		ev.Error = string(recipe.CodeOf(err))
	}
	return ev
}

// checkStatus compares an apply result with the expected status.
func checkStatus(expect *ExpectClause, res queue.Result) string {
	if expect == nil || expect.Status == "" {
		return ""
	}
	if string(res.Status) != expect.Status {
		return fmt.Sprintf("expected status %s, got %s", expect.Status, res.Status)
	}
	return ""
}

// checkError compares a step error with the expected error code. Without
// an expect clause any error fails the scenario.
func checkError(expect *ExpectClause, err error) string {
	want := ""
	if expect != nil {
		want = expect.Error
	}
	switch {
	case err == nil && want == "":
		return ""
	case err == nil:
		return fmt.Sprintf("expected error %s, got none", want)
	case want == "":
		return fmt.Sprintf("unexpected error: %v", err)
	case string(recipe.CodeOf(err)) != want:
		return fmt.Sprintf("expected error %s, got %v", want, err)
	}
	return ""
}

func ptr[T any](v T) *T { return &v }
