package carecircle

import (
	"strings"
	"unicode"
)

// RoleFromRelationship maps a free-text relationship label to a capability
// role. Matching ignores case, any whitespace, and hyphens, so "Family",
// " fam-ily " and "FAMILY\t" all grant the family role; every other label,
// including the empty string, is a friend. The mapping is total and
// idempotent: a label never fails to produce a role.
func RoleFromRelationship(relationship string) Role {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, relationship)
	if normalized == "family" {
		return RoleFamily
	}
	return RoleFriend
}
