package records

import (
	"strings"
	"time"
)

// Schema describes one record kind to the generic pipeline: how to normalize
// a record, which fields must be present, the order fields are diffed in,
// and how entries are labelled in the activity feed.
type Schema struct {
	// Kind names the record kind ("appointment", "medication").
	Kind string
	// Domain is the activity log domain for mutations of this kind.
	Domain string
	// Required lists the fields that must be non-empty strings after
	// normalization.
	Required []string
	// SummaryFields are the identifying fields copied into every activity
	// entry's metadata, so the feed shows what a record was without loading
	// it.
	SummaryFields []string
	// Normalize rewrites a record into canonical form. It is idempotent:
	// normalizing an already-normalized record changes nothing.
	Normalize func(Record) Record
	// DiffFields returns the ordered field names to compare between two
	// versions of a record.
	DiffFields func(prev, next Record) []string
	// Labels maps field names to their human-readable change labels.
	Labels map[string]string
	// EntityLabel picks the display label for an activity entry.
	EntityLabel func(Record) string
}

// Validate returns a ValidationError when required fields are empty after
// normalization.
func (s *Schema) Validate(r Record) error {
	var missing []string
	for _, field := range s.Required {
		v, _ := r[field].(string)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// FieldLabel resolves the change label for a field, capitalizing the field
// name when no explicit label exists.
func (s *Schema) FieldLabel(field string) string {
	if label, ok := s.Labels[field]; ok {
		return label
	}
	if field == "" {
		return ""
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// dateLayouts are the input shapes accepted for date fields, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	time.RFC3339,
}

// canonicalDate is the stored date form.
const canonicalDate = "2006-01-02"

// normalizeDate reformats a loose date string to YYYY-MM-DD. A non-empty
// value that matches no known layout is kept trimmed rather than dropped:
// the client sees back what it sent instead of silently losing data.
func normalizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(canonicalDate)
		}
	}
	return trimmed
}

// normalizeClock reformats a time-of-day string to zero-padded 24h HH:MM.
// Out-of-range or unparseable values normalize to "", which the required
// check then rejects.
func normalizeClock(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) < 2 {
		return ""
	}
	hour, ok := parseClockPart(parts[0])
	if !ok || hour < 0 || hour > 23 {
		return ""
	}
	minute, ok := parseClockPart(parts[1])
	if !ok || minute < 0 || minute > 59 {
		return ""
	}
	return pad2(hour) + ":" + pad2(minute)
}

func parseClockPart(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2 {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
