package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	previous := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = previous }()

	result := Code.Sprint("cipherboard page list")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "cipherboard account login", "`cipherboard account login`"},
		{"Path has no decoration", Path, "session.toml", "session.toml"},
		{"Flag has no decoration", Flag, "--invite", "--invite"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "⚠", "⚠"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "alice", "'alice'"},
		{"Muted adds parentheses", Muted, "3f2a", "(3f2a)"},
		{"Undecryptable has no decoration", Undecryptable, "[unable to decrypt]", "[unable to decrypt]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestSprintf(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Highlight.Sprintf("%s/%d", "page", 2); got != "'page/2'" {
		t.Errorf("Highlight.Sprintf = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	cases := map[string]string{
		"":       "\n",
		"hello":  "hello\n",
		"done\n": "done\n",
	}
	for in, want := range cases {
		if got := EnsureNewline(in); got != want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Content("hello", true); got != "hello" {
		t.Errorf("Content(ok) = %q", got)
	}
	if got := Content("[unable to decrypt]", false); got != "[unable to decrypt]" {
		t.Errorf("Content(failed) = %q", got)
	}
}

func TestBullets(t *testing.T) {
	got := Bullets([]string{"alice", "bob"})
	if got != "  • alice\n  • bob\n" {
		t.Errorf("Bullets = %q", got)
	}
	if Bullets(nil) != "" {
		t.Error("Bullets(nil) should be empty")
	}
}
