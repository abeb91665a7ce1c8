package errors

import (
	"strings"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/lexer"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	src := "Start Program\nWrite totl of xs\nEnd Program"
	err := NewCompilerError(lexer.Position{Line: 2, Column: 7}, "unknown phrase \"totl\"", src, "test.poh")
	out := err.Format()
	if !strings.Contains(out, "test.poh:2:7") {
		t.Errorf("expected file:line:column header, got:\n%s", out)
	}
	if !strings.Contains(out, "Write totl of xs") {
		t.Errorf("expected the offending source line to be echoed, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret marker, got:\n%s", out)
	}
}

func TestFormatWithSuggestion(t *testing.T) {
	err := NewCompilerError(lexer.Position{Line: 1, Column: 1}, "unknown phrase", "", "")
	err.Suggestion = "total of"
	out := err.Format()
	if !strings.Contains(out, `did you mean "total of"?`) {
		t.Errorf("expected a did-you-mean suggestion, got:\n%s", out)
	}
}

func TestSuggestFindsCloseMatch(t *testing.T) {
	candidates := []string{"total of", "smallest in", "largest in"}
	if got := Suggest("totl of", candidates); got != "total of" {
		t.Errorf("Suggest(\"totl of\") = %q, want %q", got, "total of")
	}
}

func TestSuggestReturnsEmptyBeyondThreshold(t *testing.T) {
	candidates := []string{"total of", "smallest in"}
	if got := Suggest("completely unrelated phrase", candidates); got != "" {
		t.Errorf("expected no suggestion for a far-off word, got %q", got)
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"total", "total", 0},
		{"totl", "total", 1},
		{"", "abc", 3},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSortedUniqueDedupsAndSorts(t *testing.T) {
	got := SortedUnique([]string{"b", "a", "b", "c", "a"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
