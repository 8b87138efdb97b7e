package normalize

import (
	"strings"
	"unicode"
)

// SentinelName is reported for records with no usable name. Its compare form
// is empty so it can never produce a false exact match.
const SentinelName = "Unknown"

// NameRecord holds the candidate names of a place or building: a primary
// name plus ordered fallbacks, as supplied by the ingestion collaborator.
type NameRecord struct {
	Primary    string   `json:"primary"`
	Alternates []string `json:"alternates,omitempty"`
}

// NormalizedName is the cleaned comparison form of a NameRecord.
type NormalizedName struct {
	// Display keeps the original casing, for reporting.
	Display string
	// Compare is trimmed, upper-cased and punctuation-stripped. Empty for
	// the sentinel: comparisons against it always score zero.
	Compare string
	// Tokens are the whitespace-delimited tokens of Compare.
	Tokens []string
	// Missing is set when the record had no non-empty name at all.
	Missing bool
}

// Record selects the display name (primary if non-empty, else first non-empty
// alternate, else the sentinel) and derives the comparison form.
func Record(r NameRecord) NormalizedName {
	display := strings.TrimSpace(r.Primary)
	if display == "" {
		for _, alt := range r.Alternates {
			if s := strings.TrimSpace(alt); s != "" {
				display = s
				break
			}
		}
	}

	if display == "" {
		return NormalizedName{Display: SentinelName, Missing: true}
	}

	compare := CompareName(display)
	return NormalizedName{
		Display: display,
		Compare: compare,
		Tokens:  strings.Fields(compare),
	}
}

// CompareName produces the canonical comparison form of a raw name:
// upper-cased, punctuation replaced by spaces, whitespace collapsed.
func CompareName(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
