// Package parser implements a recursive-descent, precedence-climbing
// parser: it turns a lexer.Token stream into an *ast.Program,
// disambiguating phrasal built-ins from ordinary identifiers through
// the lexer's Phrase Registry.
package parser

import (
	"fmt"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/errors"
	"github.com/AlhaqGH/pohlang/internal/lexer"
)

// Parser consumes a flat token slice (already produced by lexer.Tokenize)
// and builds an AST. It stops at the first parse error.
type Parser struct {
	tokens []lexer.Token
	pos    int
	file   string
	source string

	knownNames []string // identifiers seen so far, for "did you mean" suggestions
}

// New creates a Parser over tokens. source is the original program text
// (used to render the offending line in diagnostics) and file is the
// display name used in error headers; both may be empty.
func New(tokens []lexer.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

// Parse tokenizes source with a fresh lexer and parses it in one step.
func Parse(source, file string) (*ast.Program, error) {
	l := lexer.New(source)
	tokens := l.Tokenize()
	if errs := l.Errors(); len(errs) > 0 {
		e := errs[0]
		return nil, errors.NewCompilerError(e.Pos, e.Message, source, file)
	}
	return New(tokens, source, file).ParseProgram()
}

// ParseProgram parses the whole token stream. A canonical program is
// wrapped in `Start Program` / `End Program`; a bare statement sequence
// (no wrapper) is also accepted, since tools embedding the core may feed
// it script fragments.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.skipNewlines()
	wrapped := p.curIs(lexer.START) && p.peekIs(1, lexer.PROGRAM)
	if wrapped {
		p.advance()
		p.advance()
		if !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) {
			return nil, p.errorHere("expected a newline after \"Start Program\"")
		}
		p.skipNewlines()
	}

	stop := func() bool {
		if wrapped {
			return p.curIs(lexer.END) && p.peekIs(1, lexer.PROGRAM)
		}
		return p.curIs(lexer.EOF)
	}
	stmts, err := p.parseStatementsUntil(stop)
	if err != nil {
		return nil, err
	}

	if wrapped {
		if !p.curIs(lexer.END) || !p.peekIs(1, lexer.PROGRAM) {
			return nil, p.errorHere("expected \"End Program\"")
		}
		p.advance()
		p.advance()
	}
	p.skipNewlines()
	if !p.curIs(lexer.EOF) {
		return nil, p.errorHere("unexpected content after end of program")
	}
	return &ast.Program{Statements: stmts}, nil
}

// parseStatementsUntil parses statements, skipping blank lines between
// them, until stop() reports true or the token stream is exhausted.
func (p *Parser) parseStatementsUntil(stop func() bool) ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		p.skipNewlines()
		if stop() {
			return out, nil
		}
		if p.curIs(lexer.EOF) {
			return nil, p.errorHere("unexpected end of input; block was never closed")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
		if !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) && !stop() {
			return nil, p.errorHere("expected end of line after statement")
		}
	}
}

// --- token-stream primitives ---

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) at(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) peekIs(offset int, t lexer.TokenType) bool { return p.at(offset).Type == t }

// wordIs reports whether the token at offset carries the given word
// (case-insensitive), regardless of its concrete TokenType.
func (p *Parser) wordIs(offset int, word string) bool {
	tok := p.at(offset)
	return lexer.IsWordToken(tok.Type) && strings.EqualFold(tok.Literal, word)
}

func (p *Parser) skipNewlines() {
	for p.curIs(lexer.NEWLINE) {
		p.advance()
	}
}

// expect consumes the current token if it has type t, otherwise returns
// a diagnostic describing what was expected.
func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if !p.curIs(t) {
		return lexer.Token{}, p.errorHere(fmt.Sprintf("expected %s, found %q", what, p.cur().Literal))
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent(what string) (lexer.Token, error) {
	if !p.curIs(lexer.IDENT) {
		return lexer.Token{}, p.errorHere(fmt.Sprintf("expected %s, found %q", what, p.cur().Literal))
	}
	tok := p.advance()
	p.noteName(tok.Literal)
	return tok, nil
}

// expectWord consumes a non-keyword connective word such as "message" or
// "times" that was not worth its own TokenType.
func (p *Parser) expectWord(word string) error {
	if !p.wordIs(0, word) {
		return p.errorHere(fmt.Sprintf("expected %q, found %q", word, p.cur().Literal))
	}
	p.advance()
	return nil
}

func (p *Parser) noteName(name string) {
	for _, n := range p.knownNames {
		if n == name {
			return
		}
	}
	p.knownNames = append(p.knownNames, name)
}

func (p *Parser) errorHere(message string) error {
	return p.errorAt(p.cur().Pos, message)
}

func (p *Parser) errorAt(pos lexer.Position, message string) error {
	ce := errors.NewCompilerError(pos, message, p.source, p.file)
	return ce
}

// errorWithSuggestion wraps errorHere with a "did you mean" suffix
// computed against known identifiers and the Phrase Registry.
func (p *Parser) errorWithSuggestion(word, message string) error {
	candidates := append(append([]string{}, p.knownNames...), lexer.AllPhrases()...)
	ce := errors.NewCompilerError(p.cur().Pos, message, p.source, p.file)
	ce.Suggestion = errors.Suggest(word, errors.SortedUnique(candidates))
	return ce
}

// maxPhraseWords bounds how many upcoming word tokens are offered to
// lexer.MatchPrefix; it must be at least as long as the longest
// registered phrase ("is greater than or equal to" = 6 words).
const maxPhraseWords = 6

// phraseWords collects up to maxPhraseWords consecutive word-token
// literals starting at the current position.
func (p *Parser) phraseWords() []string {
	var words []string
	for i := 0; i < maxPhraseWords; i++ {
		tok := p.at(i)
		if !lexer.IsWordToken(tok.Type) {
			break
		}
		words = append(words, tok.Literal)
	}
	return words
}

// tryMatchPhrase matches the Phrase Registry against the upcoming words
// and, if the match's id is one of allowed, consumes its tokens and
// returns it. If allowed is empty, any registered phrase qualifies.
func (p *Parser) tryMatchPhrase(allowed ...lexer.PhraseID) (lexer.PhraseID, bool) {
	id, consumed, ok := lexer.MatchPrefix(p.phraseWords())
	if !ok {
		return 0, false
	}
	if len(allowed) > 0 {
		found := false
		for _, a := range allowed {
			if a == id {
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	for i := 0; i < consumed; i++ {
		p.advance()
	}
	return id, true
}
