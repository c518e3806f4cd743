package workspace

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after NFD decomposition, so "Café" folds
// to "Cafe" instead of dropping the rune entirely.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize maps arbitrary feature text to a branch-safe identifier:
// lower-case, runs of characters outside [a-z0-9-] become a single '-',
// repeated '-' collapse, leading/trailing '-' are trimmed. Total and
// idempotent; empty or fully-degenerate input yields the empty string,
// which callers must reject before use.
func Sanitize(input string) string {
	folded, _, err := transform.String(deaccent, input)
	if err != nil {
		folded = input
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastDash := true // suppresses leading dashes
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
