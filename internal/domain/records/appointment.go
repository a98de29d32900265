package records

import (
	"sort"
	"strings"
)

// appointmentFixedFields are diffed first, in this order; remaining keys
// follow alphabetically. The id is never diffed.
var appointmentFixedFields = []string{"title", "type", "date", "time"}

// AppointmentSchema describes the appointment record kind.
var AppointmentSchema = &Schema{
	Kind:          "appointment",
	Domain:        "appointment",
	Required:      []string{"id", "title", "type", "date", "time"},
	SummaryFields: []string{"date", "time"},
	Labels: map[string]string{
		"title": "Title",
		"type":  "Type",
		"date":  "Date",
		"time":  "Time",
	},
	Normalize:   normalizeAppointment,
	DiffFields:  appointmentDiffFields,
	EntityLabel: func(r Record) string { title, _ := r["title"].(string); return title },
}

// normalizeAppointment canonicalizes an appointment record. Known fields get
// their specific treatment; every other string field is trimmed and carried
// through, and non-string extras pass untouched.
func normalizeAppointment(r Record) Record {
	out := make(Record, len(r))
	for key, value := range r {
		switch key {
		case "id", "title", "type":
			if s, ok := value.(string); ok {
				out[key] = strings.TrimSpace(s)
			} else {
				out[key] = value
			}
		case "date":
			if s, ok := value.(string); ok {
				if normalized := normalizeDate(s); normalized != "" {
					out[key] = normalized
				}
			}
		case "time":
			if s, ok := value.(string); ok {
				if normalized := normalizeClock(s); normalized != "" {
					out[key] = normalized
				}
			}
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

func appointmentDiffFields(prev, next Record) []string {
	fixed := make(map[string]bool, len(appointmentFixedFields)+1)
	fixed["id"] = true
	for _, f := range appointmentFixedFields {
		fixed[f] = true
	}

	extras := make(map[string]bool)
	for key := range prev {
		if !fixed[key] {
			extras[key] = true
		}
	}
	for key := range next {
		if !fixed[key] {
			extras[key] = true
		}
	}

	fields := append([]string{}, appointmentFixedFields...)
	sorted := make([]string, 0, len(extras))
	for key := range extras {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)
	return append(fields, sorted...)
}
