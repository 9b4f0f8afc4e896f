package nlp

import (
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var levenshtein = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   1,
}

// EditDistance is the Levenshtein distance between a and b counted in runes.
func EditDistance(a, b string) int {
	return levenshtein.Distance(a, b)
}

// Similarity returns (maxLen - EditDistance) / maxLen in [0, 1].
// Two empty strings are identical; a single empty side scores 0.
// Callers are expected to pass normalized text.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 1
	}

	return strutil.Similarity(a, b, levenshtein)
}

// JaroWinkler scores the normalized forms of a and b, used for ranking search hits.
func JaroWinkler(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		if na == nb {
			return 1
		}
		return 0
	}

	return strutil.Similarity(na, nb, metrics.NewJaroWinkler())
}
