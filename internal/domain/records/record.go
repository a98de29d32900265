package records

import (
	"errors"
	"fmt"
	"strings"
)

// Record is one appointment or medication as the clients store it: a loose
// JSON object identified by its "id" field. The schema for each kind decides
// which fields matter; everything else rides along untouched apart from
// string trimming.
type Record map[string]interface{}

// ID returns the record's id field, or "" when absent or not a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy. Normalizers build fresh maps so a shallow
// copy is enough to keep merge overlays from mutating stored state.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var (
	// ErrNotFound is returned when no record in the owner's list carries the
	// requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when a create collides with an existing id.
	ErrDuplicateID = errors.New("id already exists")
)

// ValidationError reports the required fields still empty after
// normalization. A record that fails validation never reaches persistence.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
