// Package strings provides small string-slice helpers shared across modules.
package strings

import "strings"

// DedupeAndTrim trims whitespace, drops empties and duplicates, and preserves
// first-seen order. Used for low-cardinality label sets such as issue codes
// in audit metadata.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
