package utils

import (
	"strings"
	"unicode"
)

// TokenSet lowercases s, strips punctuation and collapses whitespace, then
// returns the set of remaining word tokens.
func TokenSet(s string) map[string]struct{} {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(b.String()) {
		set[tok] = struct{}{}
	}
	return set
}

// JaccardIndex computes |intersection| / |union| of the two answers' token
// sets. Defined as 0 when both sets are empty.
func JaccardIndex(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// IsSimilar reports whether two short answers agree, by Jaccard index against
// the given threshold. Deterministic and side-effect free.
func IsSimilar(a, b string, threshold float64) bool {
	return JaccardIndex(a, b) >= threshold
}
