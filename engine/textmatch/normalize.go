// Package textmatch implements the fuzzy string matching used to reconcile
// scraped car names: normalization, a partial-ratio similarity score, a
// greedy one-best matcher, and an optimal bipartite assignment matcher.
package textmatch

import "strings"

// Normalize strips every character outside [A-Za-z0-9] and whitespace, and
// lowercases the rest. Pure and idempotent; applied before every similarity
// comparison so punctuation and case never affect matching.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, s)
}
