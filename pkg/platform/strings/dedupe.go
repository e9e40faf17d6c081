// Package strings holds small string-slice helpers shared across services.
package strings

import "strings"

// DedupeAndTrim trims every element, drops empties, and removes duplicates
// while preserving order. Form handlers use it to normalize multi-value
// inputs like checkbox groups before parsing.
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
