package lexer

import "testing"

// TestNextToken covers the basic operator/identifier/number surface by
// walking a token-by-token table.
func TestNextToken(t *testing.T) {
	input := `Set x to 5
Set x to x plus 10`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{SET, "Set"},
		{IDENT, "x"},
		{TO, "to"},
		{NUMBER, "5"},
		{NEWLINE, "\n"},
		{SET, "Set"},
		{IDENT, "x"},
		{TO, "to"},
		{IDENT, "x"},
		{IDENT, "plus"},
		{NUMBER, "10"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.nextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "Set Write Ask If Otherwise End While Repeat Times Make With Return Use Import Try This Finally Throw Start Program Stop Skip Call Not And Or"
	tests := []TokenType{
		SET, WRITE, ASK, IF, OTHERWISE, END, WHILE, REPEAT, TIMES, MAKE, WITH,
		RETURN, USE, IMPORT, TRY, THIS, FINALLY, THROW, START, PROGRAM, STOP,
		SKIP, CALL, NOT, AND, OR, EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.nextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestCaseInsensitiveKeywords(t *testing.T) {
	input := "SET Set set WRITE Write"
	for i := 0; i < 3; i++ {
		l := New("SET")
		tok := l.nextToken()
		if tok.Type != SET {
			t.Fatalf("case variant %d: expected SET, got %s", i, tok.Type)
		}
	}
	l := New(input)
	for i := 0; i < 3; i++ {
		tok := l.nextToken()
		if tok.Type != SET {
			t.Fatalf("token %d: expected SET regardless of case, got %s (%q)", i, tok.Type, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `>= <= == != <> + - * / % = < > ( ) [ ] { } , :`
	tests := []TokenType{
		GREATER_EQ, LESS_EQ, EQ, NOT_EQ, NOT_EQ,
		PLUS, MINUS, ASTERISK, SLASH, PERCENT,
		EQ, LESS, GREATER,
		LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE, COMMA, COLON, EOF,
	}
	l := New(input)
	for i, want := range tests {
		tok := l.nextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"hello\nworld\t\"quoted\"\\done"`
	l := New(input)
	tok := l.nextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	want := "hello\nworld\t\"quoted\"\\done"
	if tok.Literal != want {
		t.Fatalf("escape decoding wrong: expected %q, got %q", want, tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no closing quote`)
	l.nextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected an unterminated-string lex error")
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"0", "0"},
		{"1e3", "1e3"},
		{"1e+3", "1e+3"},
		{"1e", "1"}, // trailing bare 'e' with no exponent digits is not consumed
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.nextToken()
		if tok.Type != NUMBER {
			t.Fatalf("input %q: expected NUMBER, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Fatalf("input %q: expected literal %q, got %q", tt.input, tt.want, tok.Literal)
		}
	}
}

func TestNumberThenIdentifierAfterBareExponent(t *testing.T) {
	// "1e" should lex as NUMBER("1") followed by IDENT("e"), not silently
	// swallow the 'e'.
	l := New("1e")
	tok1 := l.nextToken()
	if tok1.Type != NUMBER || tok1.Literal != "1" {
		t.Fatalf("expected NUMBER(1), got %s(%q)", tok1.Type, tok1.Literal)
	}
	tok2 := l.nextToken()
	if tok2.Type != IDENT || tok2.Literal != "e" {
		t.Fatalf("expected IDENT(e) recovered after rewind, got %s(%q)", tok2.Type, tok2.Literal)
	}
}

func TestComments(t *testing.T) {
	input := "Set x to 1 # a trailing comment\nSet y to 2"
	l := New(input)
	toks := l.Tokenize()
	var literals []string
	for _, tok := range toks {
		literals = append(literals, tok.Literal)
	}
	for _, lit := range literals {
		if lit == "a" || lit == "trailing" || lit == "comment" {
			t.Fatalf("comment text leaked into token stream: %v", literals)
		}
	}
}

func TestTokenizeCollapsesBlankLines(t *testing.T) {
	input := "Set x to 1\n\n\n\nSet y to 2"
	l := New(input)
	toks := l.Tokenize()
	newlineRun := 0
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			newlineRun++
			if newlineRun > 1 {
				t.Fatalf("expected blank-line runs collapsed to one NEWLINE, got a run of %d", newlineRun)
			}
		} else {
			newlineRun = 0
		}
	}
}

func TestBOMStripped(t *testing.T) {
	l := New("\xEF\xBB\xBFSet x to 1")
	tok := l.nextToken()
	if tok.Type != SET {
		t.Fatalf("expected BOM to be stripped before the first token, got %s", tok.Type)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("Set x to 1 @ 2")
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatal("expected an illegal-character lex error for '@'")
	}
}
