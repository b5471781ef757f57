// Package certgen orchestrates batch certificate generation: participant
// intake, quota accounting, rendering, document conversion and packaging.
package certgen

import "strings"

// NormalizeParticipants trims whitespace, drops empty entries and removes
// exact duplicates. Comparison is case sensitive, so "Ann" and "ann" are
// two different participants. First-seen order is preserved.
func NormalizeParticipants(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
