package covers

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "The Hobbit", "the hobbit"},
		{"strips punctuation", "The Hobbit!", "the hobbit"},
		{"strips symbols", "C++ = Fun$", "c fun"},
		{"collapses whitespace", "the   hobbit", "the hobbit"},
		{"trims", "  dune  ", "dune"},
		{"unicode punctuation", "三体：黑暗森林", "三体 黑暗森林"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
		{"mixed", "  The  Left Hand — of Darkness!! ", "the left hand of darkness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Hobbit!",
		"  dune  ",
		"C++ = Fun$",
		"三体：黑暗森林",
		"already normalized",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeCaseAndPunctuationInsensitive(t *testing.T) {
	if Normalize("The Hobbit!") != Normalize("the   hobbit") {
		t.Error("expected punctuation/case variants to share one key")
	}
}
