package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cauldron/internal/recipe"
)

// TraceSnapshot captures the trace and final head of a scenario run.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Trace        []TraceEvent  `json:"trace"`
	Head         recipe.Recipe `json:"head"`
	Lineage      []string      `json:"lineage"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization. Quantities are already strings in the head's content
// map, so no floats reach the encoder.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":  event.Seq,
			"step": event.Step,
		}
		if event.Modification != "" {
			eventMap["modification"] = event.Modification
		}
		if event.Priority != nil {
			eventMap["priority"] = *event.Priority
		}
		if event.Op != "" {
			eventMap["op"] = event.Op
		}
		if event.Status != "" {
			eventMap["status"] = event.Status
		}
		if event.Parent != "" {
			eventMap["parent"] = event.Parent
		}
		if event.Version != "" {
			eventMap["version"] = event.Version
		}
		if event.Changed != nil {
			eventMap["changed"] = *event.Changed
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		if event.Versions != nil {
			eventMap["versions"] = *event.Versions
		}
		if event.Pending != nil {
			eventMap["pending"] = *event.Pending
		}
		traceList[i] = eventMap
	}

	head := s.Head.ContentMap()
	head["id"] = s.Head.ID

	lineage := s.Lineage
	if lineage == nil {
		lineage = []string{}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"head":          head,
		"lineage":       lineage,
	}
}

// Marshal renders the snapshot as canonical JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return recipe.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Head:         result.Head,
		Lineage:      result.Lineage,
	}
	traceJSON, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
