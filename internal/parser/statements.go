package parser

import (
	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.WRITE:
		return p.parseWrite()
	case lexer.ASK:
		return p.parseAsk()
	case lexer.SET:
		return p.parseSet()
	case lexer.INCREASE:
		return p.parseIncDec(false)
	case lexer.DECREASE:
		return p.parseIncDec(true)
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.MAKE:
		return p.parseMake()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.USE:
		return p.parseUse()
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.TRY:
		return p.parseTry()
	case lexer.THROW:
		return p.parseThrow()
	case lexer.STOP:
		tok := p.advance()
		return &ast.BreakStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal)}, nil
	case lexer.SKIP:
		tok := p.advance()
		return &ast.ContinueStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal)}, nil
	default:
		line := p.cur().Pos.Line
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Base: ast.NewBase(line, p.cur().Literal), Expr: expr}, nil
	}
}

func (p *Parser) parseWrite() (ast.Statement, error) {
	tok := p.advance() // WRITE
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.WriteStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Value: value}, nil
}

func (p *Parser) parseAsk() (ast.Statement, error) {
	tok := p.advance() // ASK
	if _, err := p.expect(lexer.FOR, "\"for\""); err != nil {
		return nil, err
	}
	name, err := p.expectIdent("a variable name")
	if err != nil {
		return nil, err
	}
	return &ast.AskStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Name: name.Literal}, nil
}

func (p *Parser) parseSet() (ast.Statement, error) {
	tok := p.advance() // SET
	name, err := p.expectIdent("a variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TO, "\"to\""); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.SetStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Name: name.Literal, Value: value}, nil
}

func (p *Parser) parseIncDec(decrement bool) (ast.Statement, error) {
	tok := p.advance() // INCREASE / DECREASE
	name, err := p.expectIdent("a variable name")
	if err != nil {
		return nil, err
	}
	var amount ast.Expression
	if p.curIs(lexer.BY) {
		p.advance()
		amount, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IncDecStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Name: name.Literal, Amount: amount, Decrement: decrement}, nil
}

// parseBlockOrInline parses either a `:`-less block (a newline, a
// statement sequence, and a bare `End`) or, when the header is followed
// directly by another statement on the same line, a single inline
// statement with no terminator to consume.
func (p *Parser) parseBlockOrInline(line int, lit string) (ast.Statement, error) {
	if p.curIs(lexer.NEWLINE) {
		p.skipNewlines()
		stmts, err := p.parseStatementsUntil(func() bool { return p.curIs(lexer.END) })
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.END, "\"End\""); err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Base: ast.NewBase(line, lit), Statements: stmts}, nil
	}
	return p.parseStatement()
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance() // IF
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.NEWLINE) {
		p.skipNewlines()
		thenStmts, err := p.parseStatementsUntil(func() bool { return p.curIs(lexer.OTHERWISE) || p.curIs(lexer.END) })
		if err != nil {
			return nil, err
		}
		then := &ast.BlockStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Statements: thenStmts}

		var elseStmt ast.Statement
		if p.curIs(lexer.OTHERWISE) {
			otok := p.advance()
			elseStmt, err = p.parseBlockOrInline(otok.Pos.Line, otok.Literal)
			if err != nil {
				return nil, err
			}
			if _, ok := elseStmt.(*ast.BlockStatement); !ok {
				// inline Otherwise branch still needs the enclosing End consumed.
				if _, err := p.expect(lexer.END, "\"End\""); err != nil {
					return nil, err
				}
			}
		} else {
			if _, err := p.expect(lexer.END, "\"End\""); err != nil {
				return nil, err
			}
		}
		return &ast.IfStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Condition: cond, Then: then, Else: elseStmt}, nil
	}

	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Statement
	if p.curIs(lexer.OTHERWISE) {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Condition: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance() // WHILE
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE, "a newline after the While condition"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	stmts, err := p.parseStatementsUntil(func() bool { return p.curIs(lexer.END) })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END, "\"End\""); err != nil {
		return nil, err
	}
	body := &ast.BlockStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Statements: stmts}
	return &ast.WhileStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Condition: cond, Body: body}, nil
}

func (p *Parser) parseRepeat() (ast.Statement, error) {
	tok := p.advance() // REPEAT
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.TIMES) {
		p.advance()
	}
	if _, err := p.expect(lexer.NEWLINE, "a newline after the Repeat count"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	stmts, err := p.parseStatementsUntil(func() bool { return p.curIs(lexer.END) })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END, "\"End\""); err != nil {
		return nil, err
	}
	body := &ast.BlockStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Statements: stmts}
	return &ast.RepeatStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Count: count, Body: body}, nil
}

func (p *Parser) parseMake() (ast.Statement, error) {
	tok := p.advance() // MAKE
	name, err := p.expectIdent("a function name")
	if err != nil {
		return nil, err
	}

	var params []ast.Param
	if p.curIs(lexer.WITH) {
		p.advance()
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlockOrInline(tok.Pos.Line, tok.Literal)
	if err != nil {
		return nil, err
	}
	return &ast.MakeStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Name: name.Literal, Params: params, Body: body}, nil
}

// parseParamList parses `name [set to <expr>] (, name [set to <expr>])*`.
func (p *Parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param
	for {
		name, err := p.expectIdent("a parameter name")
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name.Literal}
		if p.curIs(lexer.SET) && p.peekIs(1, lexer.TO) {
			p.advance()
			p.advance()
			def, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance() // RETURN
	if p.curIs(lexer.NEWLINE) || p.curIs(lexer.EOF) || p.curIs(lexer.END) {
		return &ast.ReturnStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal)}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Value: value}, nil
}

func (p *Parser) parseUse() (ast.Statement, error) {
	tok := p.advance() // USE
	name, err := p.expectIdent("a function name")
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
	return &ast.UseStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Name: name.Literal, Args: args}, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	tok := p.advance() // IMPORT
	path, err := p.expect(lexer.STRING, "a quoted import path")
	if err != nil {
		return nil, err
	}
	return &ast.ImportStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Path: path.Literal}, nil
}

func (p *Parser) parseThrow() (ast.Statement, error) {
	tok := p.advance() // THROW
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Value: value}, nil
}

// parseTry parses `try this:` <body> (`if error ...` <handler>)+
// [`finally:` <cleanup>] `end try`.
func (p *Parser) parseTry() (ast.Statement, error) {
	tok := p.advance() // TRY
	if _, err := p.expect(lexer.THIS, "\"this\""); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "\":\" after \"try this\""); err != nil {
		return nil, err
	}
	p.skipNewlines()

	atCatch := func() bool { return p.curIs(lexer.IF) && p.wordIs(1, "error") }
	atFinally := func() bool { return p.curIs(lexer.FINALLY) }
	atEndTry := func() bool { return p.curIs(lexer.END) && p.peekIs(1, lexer.TRY) }

	bodyStmts, err := p.parseStatementsUntil(func() bool { return atCatch() || atFinally() || atEndTry() })
	if err != nil {
		return nil, err
	}
	body := &ast.BlockStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Statements: bodyStmts}

	var catches []*ast.CatchClause
	for atCatch() {
		catch, err := p.parseCatchClause(func() bool { return atCatch() || atFinally() || atEndTry() })
		if err != nil {
			return nil, err
		}
		catches = append(catches, catch)
	}
	if len(catches) == 0 {
		return nil, p.errorHere("try block must have at least one \"if error\" handler")
	}

	var finally *ast.BlockStatement
	if atFinally() {
		ftok := p.advance()
		if _, err := p.expect(lexer.COLON, "\":\" after \"finally\""); err != nil {
			return nil, err
		}
		p.skipNewlines()
		stmts, err := p.parseStatementsUntil(atEndTry)
		if err != nil {
			return nil, err
		}
		finally = &ast.BlockStatement{Base: ast.NewBase(ftok.Pos.Line, ftok.Literal), Statements: stmts}
	}

	if !atEndTry() {
		return nil, p.errorHere("expected \"end try\"")
	}
	p.advance() // END
	p.advance() // TRY
	return &ast.TryStatement{Base: ast.NewBase(tok.Pos.Line, tok.Literal), Body: body, Catches: catches, Finally: finally}, nil
}

// parseCatchClause parses `if error [of type "Type"] [as name]` followed
// by its handler body.
func (p *Parser) parseCatchClause(stop func() bool) (*ast.CatchClause, error) {
	line := p.cur().Pos.Line
	p.advance() // IF
	p.advance() // "error"

	var typeName string
	if p.curIs(lexer.OF) && p.wordIs(1, "type") {
		p.advance()
		p.advance()
		typeTok, err := p.expect(lexer.STRING, "a quoted error type name")
		if err != nil {
			return nil, err
		}
		typeName = typeTok.Literal
	}

	var binding string
	if p.curIs(lexer.AS) {
		p.advance()
		nameTok, err := p.expectIdent("a binding name")
		if err != nil {
			return nil, err
		}
		binding = nameTok.Literal
	}

	if !p.curIs(lexer.NEWLINE) {
		return nil, p.errorHere("expected a newline after the \"if error\" handler header")
	}
	p.skipNewlines()
	stmts, err := p.parseStatementsUntil(stop)
	if err != nil {
		return nil, err
	}
	return &ast.CatchClause{
		Line:    line,
		Type:    typeName,
		Binding: binding,
		Body:    &ast.BlockStatement{Base: ast.NewBase(line, "if"), Statements: stmts},
	}, nil
}
