package lexer

import "testing"

// TestMatchPrefixLongestWins exercises the Phrase Registry's core
// contract: longest registered phrase wins over a shorter
// one that is itself also a valid prefix.
func TestMatchPrefixLongestWins(t *testing.T) {
	tests := []struct {
		words string
		want  PhraseID
		n     int
	}{
		{"is greater than or equal to x", PhraseIsGreaterThanOrEqualTo, 6},
		{"is greater than x", PhraseIsGreaterThan, 3},
		{"is equal to x", PhraseIsEqualTo, 3},
		{"total of xs", PhraseTotalOf, 2},
		{"round down n", PhraseRoundDown, 2},
		{"round n", PhraseRound, 1},
		{"count of xs", PhraseCountOf, 2},
		{"size of xs", PhraseSizeOf, 2},
	}
	for _, tt := range tests {
		words := splitWords(tt.words)
		id, n, ok := MatchPrefix(words)
		if !ok {
			t.Fatalf("%q: expected a match", tt.words)
		}
		if id != tt.want || n != tt.n {
			t.Fatalf("%q: expected (%v,%d), got (%v,%d)", tt.words, tt.want, tt.n, id, n)
		}
	}
}

func TestMatchPrefixCaseInsensitive(t *testing.T) {
	words := splitWords("IS GREATER THAN x")
	id, n, ok := MatchPrefix(words)
	if !ok || id != PhraseIsGreaterThan || n != 3 {
		t.Fatalf("expected case-insensitive match of 'is greater than', got id=%v n=%d ok=%v", id, n, ok)
	}
}

func TestMatchPrefixNoMatch(t *testing.T) {
	_, _, ok := MatchPrefix(splitWords("hello world"))
	if ok {
		t.Fatal("expected no phrase match for arbitrary identifier words")
	}
}

func TestIsReservedPhraseStart(t *testing.T) {
	if !IsReservedPhraseStart("total") {
		t.Fatal("expected 'total' to start a registered phrase")
	}
	if !IsReservedPhraseStart("TOTAL") {
		t.Fatal("expected case-insensitive match")
	}
	if IsReservedPhraseStart("banana") {
		t.Fatal("did not expect 'banana' to start any registered phrase")
	}
}

func TestCanonicalSpelling(t *testing.T) {
	if got := CanonicalSpelling(PhraseTotalOf); got != "total of" {
		t.Fatalf("expected canonical spelling 'total of', got %q", got)
	}
}

func TestAllPhrasesNonEmpty(t *testing.T) {
	all := AllPhrases()
	if len(all) == 0 {
		t.Fatal("expected a non-empty phrase list for did-you-mean suggestions")
	}
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, s[start:i])
			start = -1
		}
	}
	return words
}
