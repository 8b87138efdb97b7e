package match

import (
	"math"
	"testing"

	"github.com/placematch/internal/normalize"
)

func normalized(raw string) normalize.NormalizedName {
	return normalize.Record(normalize.NameRecord{Primary: raw})
}

func TestNameSimilarityIdentical(t *testing.T) {
	m := NameSimilarity(normalized("Joe's Pizza"), normalized("Joe's Pizza!"))

	if m.ExactMatch != 1.0 {
		t.Errorf("ExactMatch = %v, want 1.0", m.ExactMatch)
	}
	if m.EditSim != 1.0 {
		t.Errorf("EditSim = %v, want 1.0", m.EditSim)
	}
	if m.JaroWinkler != 1.0 {
		t.Errorf("JaroWinkler = %v, want 1.0", m.JaroWinkler)
	}
	if m.Substring != 1.0 {
		t.Errorf("Substring = %v, want 1.0", m.Substring)
	}
	if m.TokenOverlap != 1.0 {
		t.Errorf("TokenOverlap = %v, want 1.0", m.TokenOverlap)
	}
}

func TestNameSimilarityMissingName(t *testing.T) {
	missing := normalize.Record(normalize.NameRecord{})

	if m := NameSimilarity(missing, normalized("Joe's Pizza")); m != (NameMetrics{}) {
		t.Errorf("missing vs named = %+v, want zero metrics", m)
	}
	if m := NameSimilarity(normalized("Joe's Pizza"), missing); m != (NameMetrics{}) {
		t.Errorf("named vs missing = %+v, want zero metrics", m)
	}
	if m := NameSimilarity(missing, missing); m != (NameMetrics{}) {
		t.Errorf("missing vs missing = %+v, want zero metrics", m)
	}
}

func TestNameSimilarityAbbreviation(t *testing.T) {
	// "ACME CORP" (9 chars) vs "ACME CORPORATION" (16 chars): 7 insertions.
	m := NameSimilarity(normalized("Acme Corp"), normalized("ACME CORPORATION"))

	if m.ExactMatch != 0.0 {
		t.Errorf("ExactMatch = %v, want 0.0", m.ExactMatch)
	}
	if want := 1.0 - 7.0/16.0; math.Abs(m.EditSim-want) > 1e-9 {
		t.Errorf("EditSim = %v, want %v", m.EditSim, want)
	}
	if m.JaroWinkler < 0.85 {
		t.Errorf("JaroWinkler = %v, want > 0.85 for a shared prefix", m.JaroWinkler)
	}
	if m.Substring != 1.0 {
		t.Errorf("Substring = %v, want 1.0 (shorter name contained whole)", m.Substring)
	}
	if want := 1.0 / 3.0; math.Abs(m.TokenOverlap-want) > 1e-9 {
		t.Errorf("TokenOverlap = %v, want %v", m.TokenOverlap, want)
	}
}

func TestNameSimilarityUnrelated(t *testing.T) {
	m := NameSimilarity(normalized("Blue Bottle Coffee"), normalized("Sunrise Dental"))

	if m.ExactMatch != 0.0 || m.Substring != 0.0 || m.TokenOverlap != 0.0 {
		t.Errorf("unrelated names scored exact/substring/token > 0: %+v", m)
	}
	if m.EditSim > 0.5 {
		t.Errorf("EditSim = %v, want low for unrelated names", m.EditSim)
	}
}

func TestSubstringBonusLengthGuard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"short fragment ignored", "AB", "ABSOLUTE VODKA BAR", 0.0},
		{"two rune accented fragment ignored", "ÉÉ", "ÉÉTOILE", 0.0},
		{"three chars qualifies", "ACE", "ACE HARDWARE", 1.0},
		{"three accented runes qualifies", "ÉTÉ", "CAFÉ ÉTÉ", 1.0},
		{"either direction", "GRAND HOTEL PLAZA", "HOTEL", 1.0},
		{"no containment", "NORTH CAFE", "SOUTH CAFE", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substringBonus(tt.a, tt.b); got != tt.want {
				t.Errorf("substringBonus(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenOverlapJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"JOE", "S", "PIZZA"}, []string{"JOE", "S", "PIZZA"}, 1.0},
		{"partial", []string{"ACME", "CORP"}, []string{"ACME", "CORPORATION"}, 1.0 / 3.0},
		{"disjoint", []string{"ALPHA"}, []string{"BETA"}, 0.0},
		{"duplicates collapse", []string{"CAFE", "CAFE"}, []string{"CAFE"}, 1.0},
		{"empty side", nil, []string{"CAFE"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenOverlap(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("tokenOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditSimilarityBounds(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "PIZZA", "PIZZA", 1.0},
		{"totally different same length", "AAAA", "ZZZZ", 0.0},
		{"one edit", "PIZZA", "PIZZAS", 1.0 - 1.0/6.0},
		// Accented characters are multi-byte; lengths must count runes so a
		// fully different pair bottoms out at 0 and a single edit is 1/5.
		{"accented totally different", "ÉÉÉÉ", "ÀÀÀÀ", 0.0},
		{"accented identical", "CAFÉ", "CAFÉ", 1.0},
		{"accented one edit", "CAFÉ", "CAFÉS", 1.0 - 1.0/5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("editSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
