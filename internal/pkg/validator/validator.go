package validator

import (
	"strings"
	"unicode/utf8"
)

// WithinLength reports whether s has at most max runes
func WithinLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// NormalizeIDs trims ids and drops blanks and repeats, keeping first-seen order
func NormalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
