package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/cauldron/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Step)
			if event.Modification != "" {
				fmt.Fprintf(&buf, " %s", event.Modification)
			}
			if event.Status != "" {
				fmt.Fprintf(&buf, " %s", event.Status)
			}
			if event.Version != "" {
				fmt.Fprintf(&buf, " -> %s", event.Version)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// assertList compares an ordered list from the final state.
func assertList(typ string, actual, expected []string, trace []TraceEvent) error {
	if expected == nil {
		expected = []string{}
	}
	if slices.Equal(actual, expected) {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", actual),
		Trace:    trace,
	}
}

// assertContains checks that every value is present in the head.
func assertContains(typ string, values []string, has func(string) bool, trace []TraceEvent) error {
	var missing []string
	for _, v := range values {
		if !has(v) {
			missing = append(missing, v)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("head contains %q", values),
		Actual:   fmt.Sprintf("missing %q", missing),
		Trace:    trace,
	}
}

// assertCount compares a count from the final state or trace.
func assertCount(typ string, actual, expected int, trace []TraceEvent) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
		Trace:    trace,
	}
}

// assertSaveCount checks how many times a snapshot kind was saved.
func assertSaveCount(ctx context.Context, st *store.Store, assertion Assertion) error {
	rows, err := st.Query(ctx, "SELECT COUNT(*) FROM save_log WHERE kind = ?", assertion.Kind)
	if err != nil {
		return &AssertionError{
			Type:     AssertSaveCount,
			Expected: fmt.Sprintf("query save_log for %s", assertion.Kind),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return fmt.Errorf("scan save count: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate save count: %w", err)
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertSaveCount,
			Expected: fmt.Sprintf("%d saves of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d saves", count),
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for save_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertHeadTags:
			err = assertList(assertion.Type, result.Head.Tags, assertion.Values, result.Trace)
		case AssertHeadIngredients:
			names := make([]string, len(result.Head.Ingredients))
			for j, ing := range result.Head.Ingredients {
				names[j] = ing.Name
			}
			err = assertList(assertion.Type, names, assertion.Values, result.Trace)
		case AssertHeadHasTags:
			err = assertContains(assertion.Type, assertion.Values, result.Head.HasTag, result.Trace)
		case AssertHeadHasIngredients:
			err = assertContains(assertion.Type, assertion.Values, result.Head.HasIngredient, result.Trace)
		case AssertLineage:
			err = assertList(assertion.Type, result.Lineage, assertion.Values, result.Trace)
		case AssertVersionCount:
			err = assertCount(assertion.Type, result.Versions, assertion.Count, result.Trace)
		case AssertPendingCount:
			err = assertCount(assertion.Type, result.Pending, assertion.Count, result.Trace)
		case AssertStatusCount:
			err = assertCount(assertion.Type+" "+assertion.Status, result.CountStatus(assertion.Status), assertion.Count, result.Trace)
		case AssertSaveCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: save_count requires database context", i)
			} else {
				err = assertSaveCount(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
