package nlp

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Soundex returns the four character American Soundex code of word, or ""
// when word holds no ASCII letters.
func Soundex(word string) string {
	letters := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, word)
	if letters == "" {
		return ""
	}

	return matchr.Soundex(letters)
}

// PhoneticSimilarity is the fraction of token pairs across a and b whose
// Soundex codes agree.
func PhoneticSimilarity(a, b string) float64 {
	codesA := soundexTokens(a)
	codesB := soundexTokens(b)
	if len(codesA) == 0 || len(codesB) == 0 {
		return 0
	}

	matches := 0
	for _, ca := range codesA {
		for _, cb := range codesB {
			if ca == cb {
				matches++
			}
		}
	}

	return float64(matches) / float64(len(codesA)*len(codesB))
}

func soundexTokens(text string) []string {
	var codes []string
	for _, token := range Tokens(text) {
		if code := Soundex(token); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
