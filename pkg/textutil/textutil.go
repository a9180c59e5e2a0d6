// Package textutil provides the text folding shared by keyword matching
// and header mapping. The portal mixes Spanish and English labels with
// inconsistent accents and casing; comparisons happen on folded text.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes the string and removes combining marks, so
// "crédito" folds to "credito".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold lower-cases the text, strips diacritics and collapses whitespace.
// Total: malformed UTF-8 falls back to the raw text.
func Fold(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return whitespaceRegex.ReplaceAllString(folded, " ")
}

// MatchAny reports whether the folded text contains any of the folded
// matchers.
func MatchAny(s string, matchers []string) bool {
	folded := Fold(s)
	for _, m := range matchers {
		if strings.Contains(folded, Fold(m)) {
			return true
		}
	}
	return false
}
