package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/placematch/internal/normalize"
)

// minSubstringLen guards the substring bonus against trivially short names.
const minSubstringLen = 3

// NameSimilarity computes the full name metric vector for two normalized
// names. Pure function of the two compare forms; a missing name (empty
// compare form) scores zero everywhere.
func NameSimilarity(a, b normalize.NormalizedName) NameMetrics {
	if a.Compare == "" || b.Compare == "" {
		return NameMetrics{}
	}

	return NameMetrics{
		ExactMatch:   exactMatch(a.Compare, b.Compare),
		EditSim:      editSimilarity(a.Compare, b.Compare),
		JaroWinkler:  smetrics.JaroWinkler(a.Compare, b.Compare, 0.7, 4),
		Substring:    substringBonus(a.Compare, b.Compare),
		TokenOverlap: tokenOverlap(a.Tokens, b.Tokens),
	}
}

func exactMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// editSimilarity is 1 - levenshtein/maxlen, so identical names score 1.0 and
// entirely different names approach 0. Lengths are counted in runes to match
// the distance, which is rune-based.
func editSimilarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0.0
	}
	return sim
}

// substringBonus is 1.0 when either name contains the other whole, provided
// the contained name has at least minSubstringLen runes.
func substringBonus(a, b string) float64 {
	shorter, longer := a, b
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) < minSubstringLen {
		return 0.0
	}
	if strings.Contains(longer, shorter) {
		return 1.0
	}
	return 0.0
}

// tokenOverlap is the Jaccard ratio of the two whitespace token sets:
// |intersection| / |union|.
func tokenOverlap(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
