package harness

import "github.com/roach88/cauldron/internal/recipe"

// TraceEvent records one step outcome. Apply-all steps record one event
// per modification applied.
type TraceEvent struct {
	Seq          int64  `json:"seq"`
	Step         string `json:"step"`
	Modification string `json:"modification,omitempty"`
	Priority     *int   `json:"priority,omitempty"`
	Op           string `json:"op,omitempty"`
	Status       string `json:"status,omitempty"`
	Parent       string `json:"parent,omitempty"`
	Version      string `json:"version,omitempty"`
	Changed      *bool  `json:"changed,omitempty"`
	Error        string `json:"error,omitempty"`

	// Versions and Pending are recorded by persist steps after reopening.
	Versions *int `json:"versions,omitempty"`
	Pending  *int `json:"pending,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Errors holds expect and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Head is the final head version.
	Head recipe.Recipe `json:"head"`

	// Lineage is the id path from the root to the final head.
	Lineage []string `json:"lineage"`

	Versions int `json:"versions"`
	Pending  int `json:"pending"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Lineage: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a trace event.
func (r *Result) AddEvent(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}

// CountStatus counts apply events with the given status.
func (r *Result) CountStatus(status string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Status == status {
			n++
		}
	}
	return n
}
