// Package tokenizer canonicalizes free text for comparison and splits it into
// search tokens.
package tokenizer

import (
	"strings"
)

// Normalize lowercases s and trims leading/trailing whitespace.
// Internal whitespace is left untouched. Normalize is idempotent.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Tokenize splits the normalized text on whitespace runs and returns the
// distinct tokens in first-seen order.
// For example, "  Stanford   Legal stanford" produces: "stanford", "legal".
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))

	tokens := make([]string, 0, len(fields)) // Initialize as empty slice, not nil
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}
