package questions

import (
	"strings"
	"unicode"

	"github.com/danicanod/banker-venezuela-sub000/pkg/textutil"
)

// Normalize folds question and keyword text into a canonical comparable
// form: lower case, no diacritics, no punctuation, single spaces. It is
// total; any input yields a deterministic result.
func Normalize(s string) string {
	folded := textutil.Fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation and symbols are dropped entirely
		}
	}
	return strings.TrimRight(b.String(), " ")
}
