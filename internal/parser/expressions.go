package parser

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/lexer"
)

// parseExpression is the entry point; it starts at the lowest
// precedence level, `Or`.
func (p *Parser) parseExpression() (ast.Expression, error) { return p.parseOr() }

// canStartOperand reports whether t can legally begin a right-hand
// operand. It disambiguates the word "times" used as the optional
// loop-count suffix in `Repeat N times` from its use as the
// multiplication operator: `Repeat 3 times` followed by a newline must
// not be parsed as "3 times <something>".
func canStartOperand(t lexer.TokenType) bool {
	switch t {
	case lexer.NEWLINE, lexer.EOF, lexer.END, lexer.OTHERWISE, lexer.COMMA,
		lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE, lexer.COLON, lexer.TIMES:
		return false
	default:
		return true
	}
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.OR) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Left: left, Operator: "Or", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.AND) {
		tok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Left: left, Operator: "And", Right: right}
	}
	return left, nil
}

// parseNot handles prefix `Not`, right-associative.
func (p *Parser) parseNot() (ast.Expression, error) {
	if p.curIs(lexer.NOT) {
		tok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Operator: "Not", Right: operand}, nil
	}
	return p.parseComparison()
}

var comparisonPhrases = []lexer.PhraseID{
	lexer.PhraseIsGreaterThanOrEqualTo, lexer.PhraseIsLessThanOrEqualTo,
	lexer.PhraseIsGreaterThan, lexer.PhraseIsLessThan,
	lexer.PhraseIsEqualTo, lexer.PhraseIsNotEqualTo,
}

// comparisonOperator reports the canonical operator string for a symbol
// token or a matched comparison phrase at the current position.
func (p *Parser) comparisonOperator() (string, int, bool) {
	switch p.cur().Type {
	case lexer.GREATER_EQ:
		return "GreaterThanOrEqual", 1, true
	case lexer.LESS_EQ:
		return "LessThanOrEqual", 1, true
	case lexer.GREATER:
		return "GreaterThan", 1, true
	case lexer.LESS:
		return "LessThan", 1, true
	case lexer.EQ:
		return "Equal", 1, true
	case lexer.NOT_EQ:
		return "NotEqual", 1, true
	}
	id, consumed, ok := lexer.MatchPrefix(p.phraseWords())
	if !ok {
		return "", 0, false
	}
	for _, c := range comparisonPhrases {
		if c == id {
			return comparisonOperatorName(id), consumed, true
		}
	}
	return "", 0, false
}

func comparisonOperatorName(id lexer.PhraseID) string {
	switch id {
	case lexer.PhraseIsGreaterThanOrEqualTo:
		return "GreaterThanOrEqual"
	case lexer.PhraseIsLessThanOrEqualTo:
		return "LessThanOrEqual"
	case lexer.PhraseIsGreaterThan:
		return "GreaterThan"
	case lexer.PhraseIsLessThan:
		return "LessThan"
	case lexer.PhraseIsEqualTo:
		return "Equal"
	case lexer.PhraseIsNotEqualTo:
		return "NotEqual"
	}
	return ""
}

// parseComparison implements the non-associative comparison level:
// `a < b < c` is a parse error.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, consumed, ok := p.comparisonOperator()
	if !ok {
		return left, nil
	}
	line := p.cur().Pos.Line
	for i := 0; i < consumed; i++ {
		p.advance()
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	expr := &ast.BinaryExpression{Base: ast.NewBase(line, op), Left: left, Operator: op, Right: right}
	if _, _, again := p.comparisonOperator(); again {
		return nil, p.errorHere("comparisons do not chain; use \"and\" to combine them")
	}
	return expr, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var consumed int
		switch p.cur().Type {
		case lexer.PLUS:
			op, consumed = "Plus", 1
		case lexer.MINUS:
			op, consumed = "Minus", 1
		default:
			if id, c, ok := lexer.MatchPrefix(p.phraseWords()); ok && (id == lexer.PhrasePlus || id == lexer.PhraseMinus) && canStartOperand(p.at(c).Type) {
				consumed = c
				if id == lexer.PhrasePlus {
					op = "Plus"
				} else {
					op = "Minus"
				}
			}
		}
		if consumed == 0 {
			return left, nil
		}
		line := p.cur().Pos.Line
		for i := 0; i < consumed; i++ {
			p.advance()
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Base: ast.NewBase(line, op), Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var consumed int
		switch p.cur().Type {
		case lexer.ASTERISK:
			op, consumed = "Times", 1
		case lexer.SLASH:
			op, consumed = "DividedBy", 1
		case lexer.PERCENT:
			op, consumed = "Modulo", 1
		default:
			if id, c, ok := lexer.MatchPrefix(p.phraseWords()); ok && (id == lexer.PhraseTimes || id == lexer.PhraseDividedBy) && canStartOperand(p.at(c).Type) {
				consumed = c
				if id == lexer.PhraseTimes {
					op = "Times"
				} else {
					op = "DividedBy"
				}
			}
		}
		if consumed == 0 {
			return left, nil
		}
		line := p.cur().Pos.Line
		for i := 0; i < consumed; i++ {
			p.advance()
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Base: ast.NewBase(line, op), Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.curIs(lexer.MINUS) {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Operator: "Negate", Right: operand}, nil
	}
	return p.parseCallIndex()
}

func (p *Parser) parseCallIndex() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.curIs(lexer.LPAREN):
			tok := p.advance()
			args, err := p.parseArgList(lexer.RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN, "\")\""); err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Callee: expr, Args: args}
		case p.curIs(lexer.LBRACKET):
			tok := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET, "\"]\""); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Left: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

// parseArgList parses a comma-separated expression list up to (but not
// consuming) the closing token.
func (p *Parser) parseArgList(closing lexer.TokenType) ([]ast.Expression, error) {
	var args []ast.Expression
	if p.curIs(closing) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseExpressionList parses a comma-separated expression list that is
// not wrapped in parentheses, used by `Use ... with a, b` and phrasal
// `call ... with a, b`.
func (p *Parser) parseExpressionList() ([]ast.Expression, error) {
	var args []ast.Expression
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	if expr, ok, err := p.tryParseBuiltin(); ok || err != nil {
		return expr, err
	}

	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		v, err := lexer.NumberValue(tok.Literal)
		if err != nil {
			return nil, p.errorAt(tok.Pos, fmt.Sprintf("invalid number literal %q", tok.Literal))
		}
		return ast.NewNumberLiteral(tok.Pos.Line, tok.Literal, v), nil
	case lexer.STRING:
		p.advance()
		return ast.NewStringLiteral(tok.Pos.Line, tok.Literal, tok.Literal), nil
	case lexer.TRUE:
		p.advance()
		return ast.NewBooleanLiteral(tok.Pos.Line, tok.Literal, true), nil
	case lexer.FALSE:
		p.advance()
		return ast.NewBooleanLiteral(tok.Pos.Line, tok.Literal, false), nil
	case lexer.NULL:
		p.advance()
		return ast.NewNullLiteral(tok.Pos.Line, tok.Literal), nil
	case lexer.IDENT:
		p.advance()
		p.noteName(tok.Literal)
		return ast.NewIdentifier(tok.Pos.Line, tok.Literal), nil
	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "\")\""); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACKET:
		return p.parseListLiteral()
	case lexer.LBRACE:
		return p.parseDictLiteral()
	case lexer.CALL:
		return p.parseCallWithExpression()
	default:
		return nil, p.errorWithSuggestion(tok.Literal, fmt.Sprintf("unexpected token %q in expression", tok.Literal))
	}
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	tok := p.advance() // [
	elems, err := p.parseArgList(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET, "\"]\""); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Elements: elems}, nil
}

func (p *Parser) parseDictLiteral() (ast.Expression, error) {
	tok := p.advance() // {
	var keys, values []ast.Expression
	if !p.curIs(lexer.RBRACE) {
		for {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, "\":\" in dictionary literal"); err != nil {
				return nil, err
			}
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, val)
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "\"}\""); err != nil {
		return nil, err
	}
	return &ast.DictLiteral{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Keys: keys, Values: values}, nil
}

// parseCallWithExpression parses the phrasal `call f with a, b` form.
func (p *Parser) parseCallWithExpression() (ast.Expression, error) {
	tok := p.advance() // CALL
	callee, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.curIs(lexer.WITH) {
		p.advance()
		args, err = p.parseExpressionList()
		if err != nil {
			return nil, err
		}
	}
	return &ast.CallExpression{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Callee: callee, Args: args}, nil
}
