package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Punctuation stripped before comparison. Everything else, including digits,
// is kept as-is.
const punctuation = "\"'`.,;:!?()-"

// Normalize canonicalizes raw text for answer comparison: lower-case,
// diacritics stripped, punctuation removed, whitespace collapsed to single
// spaces. It is pure and idempotent; empty input yields an empty string.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = stripDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// stripDiacritics decomposes to NFD and drops combining marks, so that
// "não" and "nao" compare equal.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
