package normalize

import (
	"reflect"
	"testing"
)

func TestCompareName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "Joe's Pizza", "JOE S PIZZA"},
		{"trailing punctuation", "Joe's Pizza!", "JOE S PIZZA"},
		{"hyphen and ampersand", "Smith & Sons-West", "SMITH SONS WEST"},
		{"already clean", "ACME CORP", "ACME CORP"},
		{"extra whitespace", "  Acme   Corp  ", "ACME CORP"},
		{"digits kept", "Studio 54", "STUDIO 54"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareName(tt.raw); got != tt.want {
				t.Errorf("CompareName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRecordFallbackOrder(t *testing.T) {
	tests := []struct {
		name        string
		record      NameRecord
		wantDisplay string
		wantMissing bool
	}{
		{
			name:        "primary wins",
			record:      NameRecord{Primary: "Joe's Pizza", Alternates: []string{"Pizzeria Joe"}},
			wantDisplay: "Joe's Pizza",
		},
		{
			name:        "first non-empty alternate",
			record:      NameRecord{Primary: "", Alternates: []string{"", "  ", "Pizzeria Joe", "Joe's"}},
			wantDisplay: "Pizzeria Joe",
		},
		{
			name:        "whitespace primary falls through",
			record:      NameRecord{Primary: "   ", Alternates: []string{"Backup Name"}},
			wantDisplay: "Backup Name",
		},
		{
			name:        "nothing usable",
			record:      NameRecord{Primary: "", Alternates: []string{"", "  "}},
			wantDisplay: SentinelName,
			wantMissing: true,
		},
		{
			name:        "empty record",
			record:      NameRecord{},
			wantDisplay: SentinelName,
			wantMissing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Record(tt.record)
			if got.Display != tt.wantDisplay {
				t.Errorf("Display = %q, want %q", got.Display, tt.wantDisplay)
			}
			if got.Missing != tt.wantMissing {
				t.Errorf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
		})
	}
}

func TestRecordSentinelNeverCompares(t *testing.T) {
	got := Record(NameRecord{})
	if got.Compare != "" {
		t.Errorf("sentinel compare form = %q, want empty", got.Compare)
	}
	if len(got.Tokens) != 0 {
		t.Errorf("sentinel tokens = %v, want none", got.Tokens)
	}
}

func TestRecordTokens(t *testing.T) {
	got := Record(NameRecord{Primary: "Joe's Pizza & Pasta"})
	want := []string{"JOE", "S", "PIZZA", "PASTA"}
	if !reflect.DeepEqual(got.Tokens, want) {
		t.Errorf("Tokens = %v, want %v", got.Tokens, want)
	}
}
