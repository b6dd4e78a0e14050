package recipe

import "fmt"

// Modification is one proposed edit waiting in the queue.
//
// Lower Priority values are served first. Only Priority may change while
// the modification is queued (see queue.ReRank).
type Modification struct {
	ID        string        `json:"id" validate:"required"`
	Priority  int           `json:"priority"`
	Operation EditOperation `json:"operation" validate:"-"`
}

// NewModification creates a Modification with a freshly generated id.
// Returns a Validation error if op has no populated field.
func NewModification(priority int, op EditOperation) (Modification, error) {
	m := Modification{
		ID:        NewID(),
		Priority:  priority,
		Operation: op.clone(),
	}
	if err := m.Validate(); err != nil {
		return Modification{}, err
	}
	return m, nil
}

// MustModification is like NewModification but panics on error.
// Use only in tests or when op is known to be populated.
func MustModification(priority int, op EditOperation) Modification {
	m, err := NewModification(priority, op)
	if err != nil {
		panic(err)
	}
	return m
}

// Clone returns a deep copy.
func (m Modification) Clone() Modification {
	return Modification{ID: m.ID, Priority: m.Priority, Operation: m.Operation.clone()}
}

// String renders the modification for listings.
func (m Modification) String() string {
	return fmt.Sprintf("[%d] %s (%s)", m.Priority, m.Operation.Describe(), m.ID)
}
