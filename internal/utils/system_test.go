package utils

import (
	"strings"
	"testing"
)

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"LowercaseSimple", "Alice", "alice"},
		{"SpacesToHyphens", "Alice Smith", "alice-smith"},
		{"RemoveSpecialChars", "al!ce@home#1", "alcehome1"},
		{"CollapseSeparators", "alice..smith", "alice-smith"},
		{"TrimSeparators", "-alice_", "alice"},
		{"WindowsDomain", `CORP\alice`, "alice"},
		{"PreserveDots", "alice.smith", "alice.smith"},
		{"Empty", "   ", ""},
		{"OnlySpecialChars", "@#$%", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeUsername(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeUsername(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestSanitizeUsernameTruncates(t *testing.T) {
	result := SanitizeUsername(strings.Repeat("a", 100))
	if len(result) != 64 {
		t.Errorf("Expected 64 characters, got %d", len(result))
	}
}

func TestDefaultUsername(t *testing.T) {
	name := DefaultUsername()
	if name != SanitizeUsername(name) {
		t.Errorf("DefaultUsername returned unsanitized %q", name)
	}
}
