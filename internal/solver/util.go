package solver

import "strings"

// trimAndLower normalizes a display name for case-insensitive,
// whitespace-insensitive comparison (zone name resolution).
func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
