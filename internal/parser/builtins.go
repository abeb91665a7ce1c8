package parser

import (
	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/lexer"
)

// builtinPhrases is every Phrase Registry id that introduces a phrasal
// built-in expression. `call ... with ...` is matched by the
// registry too but is handled directly in parsePrimary since it produces
// a CallExpression, not a BuiltinExpression.
var builtinPhrases = map[lexer.PhraseID]bool{
	lexer.PhraseTotalOf: true, lexer.PhraseSmallestIn: true, lexer.PhraseLargestIn: true,
	lexer.PhraseAbsoluteValueOf: true, lexer.PhraseRound: true, lexer.PhraseRoundDown: true, lexer.PhraseRoundUp: true,
	lexer.PhraseMakeUppercase: true, lexer.PhraseMakeLowercase: true,
	lexer.PhraseTrimSpacesFrom: true, lexer.PhraseCleanSpacesFrom: true,
	lexer.PhraseFirstIn: true, lexer.PhraseLastIn: true,
	lexer.PhraseReverseOf: true, lexer.PhraseReverse: true,
	lexer.PhraseCountOf: true, lexer.PhraseSizeOf: true,
	lexer.PhraseJoin: true, lexer.PhraseSplitBy: true, lexer.PhraseSeparateBy: true,
	lexer.PhraseContains: true, lexer.PhraseRemoveFrom: true, lexer.PhraseAppendTo: true, lexer.PhraseInsertAt: true,
	lexer.PhraseErrorOfType: true, lexer.PhraseErrorMessageOf: true, lexer.PhraseErrorTypeOf: true,
}

// tryParseBuiltin attempts to match a phrasal built-in introducer at the
// current position. It reports ok=false without consuming anything when
// the upcoming words do not start a registered built-in.
func (p *Parser) tryParseBuiltin() (ast.Expression, bool, error) {
	id, consumed, ok := lexer.MatchPrefix(p.phraseWords())
	if !ok || !builtinPhrases[id] {
		return nil, false, nil
	}
	tok := p.cur()
	for i := 0; i < consumed; i++ {
		p.advance()
	}

	expr, err := p.parseBuiltinBody(id, tok)
	if err != nil {
		return nil, true, err
	}
	return expr, true, nil
}

// parseOperand parses a single built-in operand at additive precedence:
// high enough to admit arithmetic expressions like `total of xs plus 1`
// without swallowing a following comparison, "and"/"or", or connector
// keyword meant for the enclosing builtin.
func (p *Parser) parseOperand() (ast.Expression, error) { return p.parseAdditive() }

func (p *Parser) parseBuiltinBody(id lexer.PhraseID, tok lexer.Token) (ast.Expression, error) {
	base := ast.NewBase(tok.Pos.Line, tok.Literal)

	one := func(kind ast.BuiltinKind) (ast.Expression, error) {
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.BuiltinExpression{Base: base, Builtin: kind, Args: []ast.Expression{operand}}, nil
	}

	two := func(kind ast.BuiltinKind, connector lexer.TokenType, connectorDesc string) (ast.Expression, error) {
		first, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(connector, connectorDesc); err != nil {
			return nil, err
		}
		second, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.BuiltinExpression{Base: base, Builtin: kind, Args: []ast.Expression{first, second}}, nil
	}

	switch id {
	case lexer.PhraseTotalOf:
		return one(ast.BuiltinTotalOf)
	case lexer.PhraseSmallestIn:
		return one(ast.BuiltinSmallestIn)
	case lexer.PhraseLargestIn:
		return one(ast.BuiltinLargestIn)
	case lexer.PhraseAbsoluteValueOf:
		return one(ast.BuiltinAbsoluteValueOf)
	case lexer.PhraseRound:
		return one(ast.BuiltinRound)
	case lexer.PhraseRoundDown:
		return one(ast.BuiltinRoundDown)
	case lexer.PhraseRoundUp:
		return one(ast.BuiltinRoundUp)
	case lexer.PhraseMakeUppercase:
		return one(ast.BuiltinMakeUppercase)
	case lexer.PhraseMakeLowercase:
		return one(ast.BuiltinMakeLowercase)
	case lexer.PhraseTrimSpacesFrom, lexer.PhraseCleanSpacesFrom:
		return one(ast.BuiltinTrimSpacesFrom)
	case lexer.PhraseFirstIn:
		return one(ast.BuiltinFirstIn)
	case lexer.PhraseLastIn:
		return one(ast.BuiltinLastIn)
	case lexer.PhraseReverseOf, lexer.PhraseReverse:
		return one(ast.BuiltinReverseOf)
	case lexer.PhraseCountOf, lexer.PhraseSizeOf:
		return one(ast.BuiltinCountOf)
	case lexer.PhraseJoin:
		return two(ast.BuiltinJoinWith, lexer.WITH, "\"with\" in \"join ... with ...\"")
	case lexer.PhraseSplitBy, lexer.PhraseSeparateBy:
		return two(ast.BuiltinSplitBy, lexer.BY, "\"by\" in \"split ... by ...\"")
	case lexer.PhraseContains:
		return two(ast.BuiltinContainsIn, lexer.IN, "\"in\" in \"contains ... in ...\"")
	case lexer.PhraseRemoveFrom:
		return two(ast.BuiltinRemoveFrom, lexer.FROM, "\"from\" in \"remove ... from ...\"")
	case lexer.PhraseAppendTo:
		return two(ast.BuiltinAppendTo, lexer.TO, "\"to\" in \"append ... to ...\"")
	case lexer.PhraseInsertAt:
		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.AT, "\"at\" in \"insert ... at ... in ...\""); err != nil {
			return nil, err
		}
		index, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.IN, "\"in\" in \"insert ... at ... in ...\""); err != nil {
			return nil, err
		}
		list, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.BuiltinExpression{Base: base, Builtin: ast.BuiltinInsertAtIn, Args: []ast.Expression{value, index, list}}, nil
	case lexer.PhraseErrorOfType:
		kindExpr, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.WITH, "\"with\" in \"error of type ... with message ...\""); err != nil {
			return nil, err
		}
		if err := p.expectWord("message"); err != nil {
			return nil, err
		}
		msgExpr, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.BuiltinExpression{Base: base, Builtin: ast.BuiltinErrorOfTypeWithMessage, Args: []ast.Expression{kindExpr, msgExpr}}, nil
	case lexer.PhraseErrorMessageOf:
		return one(ast.BuiltinErrorMessageOf)
	case lexer.PhraseErrorTypeOf:
		return one(ast.BuiltinErrorTypeOf)
	}
	return nil, p.errorHere("internal: unhandled phrasal built-in")
}
