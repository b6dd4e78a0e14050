package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
)

// Scenario defines one recipe-evolution run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Root is the recipe the version graph is seeded with.
	Root recipe.Recipe `yaml:"root"`

	// Steps run in order against the workspace.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one action. Exactly one action field is set.
type Step struct {
	Enqueue  *EnqueueStep `yaml:"enqueue,omitempty"`
	ReRank   *ReRankStep  `yaml:"rerank,omitempty"`
	Apply    bool         `yaml:"apply,omitempty"`
	ApplyAll bool         `yaml:"apply_all,omitempty"`
	Checkout string       `yaml:"checkout,omitempty"`
	Persist  bool         `yaml:"persist,omitempty"`

	// Expect checks the outcome of the step. For apply_all it applies to
	// the last result.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// EnqueueStep queues a modification.
type EnqueueStep struct {
	Priority int                  `yaml:"priority"`
	Op       recipe.EditOperation `yaml:"op"`
}

// ReRankStep changes a pending modification's priority.
type ReRankStep struct {
	Modification string `yaml:"modification"`
	Priority     int    `yaml:"priority"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Status is an apply status: applied, rejected, failed or empty.
	Status string `yaml:"status,omitempty"`

	// Error is the expected error code, e.g. INVARIANT_VIOLATION.
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`
}

// Step kinds, as recorded in the trace.
const (
	StepPromote  = "promote"
	StepEnqueue  = "enqueue"
	StepReRank   = "rerank"
	StepApply    = "apply"
	StepApplyAll = "apply_all"
	StepCheckout = "checkout"
	StepPersist  = "persist"
)

// Kind names the step's action, or "" when none or several are set.
func (s Step) Kind() string {
	var kinds []string
	if s.Enqueue != nil {
		kinds = append(kinds, StepEnqueue)
	}
	if s.ReRank != nil {
		kinds = append(kinds, StepReRank)
	}
	if s.Apply {
		kinds = append(kinds, StepApply)
	}
	if s.ApplyAll {
		kinds = append(kinds, StepApplyAll)
	}
	if s.Checkout != "" {
		kinds = append(kinds, StepCheckout)
	}
	if s.Persist {
		kinds = append(kinds, StepPersist)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Values is the expected list for head_tags, head_ingredients and
	// lineage. For the head_has_* assertions it is a subset, in any order.
	Values []string `yaml:"values,omitempty"`

	// Count is the expected number for the *_count assertions.
	Count int `yaml:"count,omitempty"`

	// Status selects the apply status counted by status_count.
	Status string `yaml:"status,omitempty"`

	// Kind selects the snapshot kind counted by save_count.
	Kind string `yaml:"kind,omitempty"`
}

// Assertion type constants.
const (
	AssertHeadTags           = "head_tags"
	AssertHeadIngredients    = "head_ingredients"
	AssertHeadHasTags        = "head_has_tags"
	AssertHeadHasIngredients = "head_has_ingredients"
	AssertLineage            = "lineage"
	AssertVersionCount       = "version_count"
	AssertPendingCount       = "pending_count"
	AssertStatusCount        = "status_count"
	AssertSaveCount          = "save_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Root.Name == "" {
		return fmt.Errorf("root.name is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		kind := step.Kind()
		if kind == "" {
			return fmt.Errorf("steps[%d]: exactly one action is required", i)
		}
		if kind == StepReRank && step.ReRank.Modification == "" {
			return fmt.Errorf("steps[%d].rerank: modification is required", i)
		}
		if step.Expect != nil && step.Expect.Status != "" && !validStatus(step.Expect.Status) {
			return fmt.Errorf("steps[%d].expect: unknown status %q", i, step.Expect.Status)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validStatus(s string) bool {
	switch queue.Status(s) {
	case queue.StatusEmpty, queue.StatusApplied, queue.StatusRejected, queue.StatusFailed:
		return true
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHeadTags, AssertHeadIngredients:
		// An empty list is a valid expectation.
	case AssertLineage, AssertHeadHasTags, AssertHeadHasIngredients:
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values list is required for %s", index, a.Type)
		}
	case AssertVersionCount, AssertPendingCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertStatusCount:
		if !validStatus(a.Status) {
			return fmt.Errorf("assertions[%d]: valid status is required for status_count", index)
		}
	case AssertSaveCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for save_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
