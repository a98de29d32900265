package records

import (
	"math"
	"strings"

	"github.com/carebook/carebook/internal/domain/activity"
)

// Changes computes the ordered field-level change set between two versions
// of a record. Field order comes from the schema; values are flattened to
// comparable scalars first so "  x " and "x" or 3 and 3.0 never register as
// edits. An identical pair yields an empty, non-nil set: the stored metadata
// shape is a list either way.
func Changes(schema *Schema, prev, next Record) []activity.Change {
	changes := []activity.Change{}
	for _, field := range schema.DiffFields(prev, next) {
		before := comparableValue(prev[field])
		after := comparableValue(next[field])
		if scalarEqual(before, after) {
			continue
		}
		changes = append(changes, activity.Change{
			Field:  field,
			Label:  schema.FieldLabel(field),
			Before: before,
			After:  after,
		})
	}
	return changes
}

// comparableValue flattens a record value to one of: trimmed string, finite
// float64, bool, or nil. Anything else (lists, objects, NaN) collapses to
// nil and therefore never produces a change entry on its own.
func comparableValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.TrimSpace(v)
	case bool:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return nil
	}
}

func scalarEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	return a == b
}
