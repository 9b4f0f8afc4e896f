package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text, folds diacritics, drops everything except
// letters, digits, underscore, whitespace, '@', '.' and '-', and collapses
// whitespace runs. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}

	folded = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '@', r == '.', r == '-':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, folded)

	return strings.Join(strings.Fields(folded), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Tokens returns the whitespace separated tokens of the normalized text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}
