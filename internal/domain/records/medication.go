package records

import (
	"strconv"
	"strings"
)

// onInvalidLogEntry names the policy for malformed medication log entries:
// they are dropped during normalization instead of failing the mutation.
// Older clients still send historical payloads with partial entries.
const onInvalidLogEntry = "dropEntry"

// medicationDiffOrder is the fixed comparison order; medications have no
// alphabetical extras because the diff never reaches past this list.
var medicationDiffOrder = []string{
	"name", "dosage", "frequency", "purpose", "timesPerDay", "startDate", "endDate",
}

// MedicationSchema describes the medication record kind.
var MedicationSchema = &Schema{
	Kind:          "medication",
	Domain:        "medication",
	Required:      []string{"id", "name", "dosage", "frequency"},
	SummaryFields: []string{"dosage", "frequency"},
	Labels: map[string]string{
		"name":        "Name",
		"dosage":      "Dosage",
		"frequency":   "Frequency",
		"purpose":     "Purpose",
		"timesPerDay": "Times per day",
		"startDate":   "Start date",
		"endDate":     "End date",
	},
	Normalize:   normalizeMedication,
	DiffFields:  func(prev, next Record) []string { return medicationDiffOrder },
	EntityLabel: func(r Record) string { name, _ := r["name"].(string); return name },
}

func normalizeMedication(r Record) Record {
	out := make(Record, len(r))
	for key, value := range r {
		switch key {
		case "id", "name", "dosage", "frequency", "purpose":
			if s, ok := value.(string); ok {
				out[key] = strings.TrimSpace(s)
			} else {
				out[key] = value
			}
		case "timesPerDay":
			if n, ok := coerceTimesPerDay(value); ok {
				out[key] = n
			}
		case "startDate", "endDate":
			if s, ok := value.(string); ok {
				if normalized := normalizeDate(s); normalized != "" {
					out[key] = normalized
				}
			}
		case "logs":
			out[key] = filterLogs(value)
		default:
			if s, ok := value.(string); ok {
				out[key] = strings.TrimSpace(s)
			} else {
				out[key] = value
			}
		}
	}
	return out
}

// coerceTimesPerDay accepts a JSON number or a numeric string and returns a
// non-negative integer count. Anything else drops the field.
func coerceTimesPerDay(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		n := int(v)
		if v < 0 || float64(n) != v {
			return 0, false
		}
		return n, true
	case int:
		if v < 0 {
			return 0, false
		}
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// filterLogs keeps only well-formed intake log entries: a non-empty
// medicationId, a non-empty timestamp, and a boolean taken flag. Malformed
// entries vanish per the dropEntry policy. The result is always a list,
// never nil, so the stored shape stays stable.
func filterLogs(value interface{}) []interface{} {
	raw, ok := value.([]interface{})
	if !ok {
		return []interface{}{}
	}

	kept := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		medicationID, _ := entry["medicationId"].(string)
		timestamp, _ := entry["timestamp"].(string)
		taken, takenOK := entry["taken"].(bool)
		if medicationID == "" || timestamp == "" || !takenOK {
			continue
		}
		kept = append(kept, map[string]interface{}{
			"medicationId": medicationID,
			"timestamp":    timestamp,
			"taken":        taken,
		})
	}
	return kept
}
