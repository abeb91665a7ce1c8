package lexer

import "strings"

// PhraseID identifies a registered multi-word phrase. Every phrase the
// parser matches against (operators like "is greater than" as well as
// the phrasal built-in introducers like "total of") comes from this
// registry; no parser file embeds a phrase literal of its own.
type PhraseID int

const (
	PhraseIsGreaterThanOrEqualTo PhraseID = iota
	PhraseIsLessThanOrEqualTo
	PhraseIsGreaterThan
	PhraseIsLessThan
	PhraseIsEqualTo
	PhraseIsNotEqualTo
	PhraseDividedBy
	PhrasePlus
	PhraseMinus
	PhraseTimes

	PhraseTotalOf
	PhraseSmallestIn
	PhraseLargestIn
	PhraseAbsoluteValueOf
	PhraseRoundDown
	PhraseRoundUp
	PhraseRound
	PhraseMakeUppercase
	PhraseMakeLowercase
	PhraseTrimSpacesFrom
	PhraseCleanSpacesFrom
	PhraseFirstIn
	PhraseLastIn
	PhraseReverseOf
	PhraseReverse
	PhraseCountOf
	PhraseSizeOf
	PhraseJoin
	PhraseSplitBy
	PhraseSeparateBy
	PhraseContains
	PhraseRemoveFrom
	PhraseAppendTo
	PhraseInsertAt
	PhraseErrorOfType
	PhraseErrorMessageOf
	PhraseErrorTypeOf
	PhraseCallWith
)

// phraseEntry is one registered phrase: its canonical (diagnostic)
// spelling and the lowercase words that must match consecutively.
type phraseEntry struct {
	id        PhraseID
	canonical string
	words     []string
}

// registry is the canonical phrase table, longest phrases first within
// each ambiguous group so MatchPrefix naturally prefers the longer match
// (e.g. "is greater than or equal to" before "is greater than").
var registry = []phraseEntry{
	{PhraseIsGreaterThanOrEqualTo, "is greater than or equal to", []string{"is", "greater", "than", "or", "equal", "to"}},
	{PhraseIsLessThanOrEqualTo, "is less than or equal to", []string{"is", "less", "than", "or", "equal", "to"}},
	{PhraseIsNotEqualTo, "is not equal to", []string{"is", "not", "equal", "to"}},
	{PhraseIsGreaterThan, "is greater than", []string{"is", "greater", "than"}},
	{PhraseIsLessThan, "is less than", []string{"is", "less", "than"}},
	{PhraseIsEqualTo, "is equal to", []string{"is", "equal", "to"}},
	{PhraseDividedBy, "divided by", []string{"divided", "by"}},
	{PhrasePlus, "plus", []string{"plus"}},
	{PhraseMinus, "minus", []string{"minus"}},
	{PhraseTimes, "times", []string{"times"}},

	{PhraseTotalOf, "total of", []string{"total", "of"}},
	{PhraseSmallestIn, "smallest in", []string{"smallest", "in"}},
	{PhraseLargestIn, "largest in", []string{"largest", "in"}},
	{PhraseAbsoluteValueOf, "absolute value of", []string{"absolute", "value", "of"}},
	{PhraseRoundDown, "round down", []string{"round", "down"}},
	{PhraseRoundUp, "round up", []string{"round", "up"}},
	{PhraseRound, "round", []string{"round"}},
	{PhraseMakeUppercase, "make uppercase", []string{"make", "uppercase"}},
	{PhraseMakeLowercase, "make lowercase", []string{"make", "lowercase"}},
	{PhraseTrimSpacesFrom, "trim spaces from", []string{"trim", "spaces", "from"}},
	{PhraseCleanSpacesFrom, "clean spaces from", []string{"clean", "spaces", "from"}},
	{PhraseFirstIn, "first in", []string{"first", "in"}},
	{PhraseLastIn, "last in", []string{"last", "in"}},
	{PhraseReverseOf, "reverse of", []string{"reverse", "of"}},
	{PhraseReverse, "reverse", []string{"reverse"}},
	{PhraseCountOf, "count of", []string{"count", "of"}},
	{PhraseSizeOf, "size of", []string{"size", "of"}},
	{PhraseJoin, "join", []string{"join"}},
	{PhraseSplitBy, "split", []string{"split"}},
	{PhraseSeparateBy, "separate", []string{"separate"}},
	{PhraseContains, "contains", []string{"contains"}},
	{PhraseRemoveFrom, "remove", []string{"remove"}},
	{PhraseAppendTo, "append", []string{"append"}},
	{PhraseInsertAt, "insert", []string{"insert"}},
	{PhraseErrorOfType, "error of type", []string{"error", "of", "type"}},
	{PhraseErrorMessageOf, "error message of", []string{"error", "message", "of"}},
	{PhraseErrorTypeOf, "error type of", []string{"error", "type", "of"}},
	{PhraseCallWith, "call", []string{"call"}},
}

// MatchPrefix returns the longest registered phrase whose word sequence
// matches the start of words (compared case-insensitively), and how
// many words it consumed. ok is false if no phrase matches.
func MatchPrefix(words []string) (id PhraseID, consumed int, ok bool) {
	bestLen := 0
	bestID := PhraseID(-1)
	for _, entry := range registry {
		if len(entry.words) > len(words) || len(entry.words) <= bestLen {
			continue
		}
		if wordsEqual(words[:len(entry.words)], entry.words) {
			bestLen = len(entry.words)
			bestID = entry.id
		}
	}
	if bestLen == 0 {
		return 0, 0, false
	}
	return bestID, bestLen, true
}

func wordsEqual(a, b []string) bool {
	for i := range b {
		if strings.ToLower(a[i]) != b[i] {
			return false
		}
	}
	return true
}

// IsReservedPhraseStart reports whether word begins at least one
// registered phrase; the parser uses this to decide whether an
// identifier-looking word must instead be parsed as a phrase.
func IsReservedPhraseStart(word string) bool {
	w := strings.ToLower(word)
	for _, entry := range registry {
		if entry.words[0] == w {
			return true
		}
	}
	return false
}

// CanonicalSpelling returns the diagnostic spelling of id.
func CanonicalSpelling(id PhraseID) string {
	for _, entry := range registry {
		if entry.id == id {
			return entry.canonical
		}
	}
	return ""
}

// AllPhrases returns every registered canonical spelling, for
// edit-distance "did you mean" suggestions.
func AllPhrases() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.canonical
	}
	return out
}
