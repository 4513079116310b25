// Package slug derives the human-readable identifier a listing is
// addressed by. A slug is computed exactly once at creation and never
// recomputed, so external links survive title edits.
package slug

import (
	"strings"
	"unicode"

	"github.com/ferialibre/catalog-service/internal/catalog/keyword"
)

const (
	maxTitleLen = 50
	idSuffixLen = 8
)

// Make builds "<normalized-title-up-to-50-chars>-<first-8-of-id>".
// Normalization mirrors the keyword folding (lowercase, accents and
// punctuation stripped) but preserves word order, joining words with
// single hyphens. Deterministic and idempotent for the same inputs.
func Make(title, id string) string {
	folded := keyword.Fold(title)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	base := strings.Join(strings.Fields(cleaned), "-")
	if runes := []rune(base); len(runes) > maxTitleLen {
		base = strings.TrimRight(string(runes[:maxTitleLen]), "-")
	}

	suffix := id
	if len(suffix) > idSuffixLen {
		suffix = suffix[:idSuffixLen]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
