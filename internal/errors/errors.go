// Package errors formats parse and compile diagnostics with source
// context: a file:line:column header, the offending source line, a
// caret pointing at the column, and an optional "did you mean"
// suggestion.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/lexer"
)

// CompilerError is a single parse-time diagnostic.
type CompilerError struct {
	Message    string
	Source     string
	File       string
	Pos        lexer.Position
	Suggestion string
}

func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format() }

// Format renders the full diagnostic: header, source line, caret, and
// suggestion if present.
func (e *CompilerError) Format() string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean %q?)", e.Suggestion)
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Suggest returns the closest candidate to word within edit distance 2,
// or "" if none qualifies. Used for "did you mean" diagnostics over
// known identifiers and registered phrases.
func Suggest(word string, candidates []string) string {
	type scored struct {
		name string
		dist int
	}
	var best scored
	best.dist = 3
	for _, c := range candidates {
		d := editDistance(strings.ToLower(word), strings.ToLower(c))
		if d < best.dist {
			best = scored{name: c, dist: d}
		}
	}
	if best.dist > 2 {
		return ""
	}
	return best.name
}

func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// SortedUnique is a small helper used when building candidate lists from
// a scope's identifier set (map keys have no stable order).
func SortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
