// Package keyword turns free text into the canonical token sets the
// catalog indexes and matches against. The same normalization runs at
// write time (deriving a listing's keywords) and at read time (free
// text queries), so case or accent differences never cause a miss.
package keyword

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinTokenLen is the shortest token worth indexing.
const MinTokenLen = 3

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics ("Teléfono" -> "telefono").
func Fold(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Normalize tokenizes the given texts into a deduplicated, sorted set
// of lowercase accent-free tokens of at least MinTokenLen runes.
// Punctuation becomes whitespace before splitting. Empty input yields
// an empty set; the function has no failure modes.
func Normalize(texts ...string) []string {
	seen := make(map[string]struct{})
	for _, text := range texts {
		folded := Fold(text)
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return ' '
		}, folded)
		for _, tok := range strings.Fields(cleaned) {
			if len([]rune(tok)) < MinTokenLen {
				continue
			}
			seen[tok] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
