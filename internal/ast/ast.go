// Package ast defines the abstract syntax tree produced by the parser
// and consumed by both the tree interpreter and the bytecode compiler.
package ast

import "fmt"

// Node is the base interface every AST node satisfies.
type Node interface {
	// TokenLiteral returns the literal text of the token the node
	// originated from; used only for diagnostics.
	TokenLiteral() string
	// String renders a debug representation; not used for execution.
	String() string
	// Line returns the 1-based source line the node originated from.
	// Every bytecode instruction compiled from a node records this
	// line in its chunk's debug info.
	Line() int
}

// Statement is an AST node that may appear in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is an AST node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: the top-level statement sequence between
// `Start Program` and `End Program`.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string { return fmt.Sprintf("Program(%d statements)", len(p.Statements)) }
func (p *Program) Line() int      { return 0 }

// Base is embedded by every concrete node to provide Line()/TokenLiteral()
// without repeating the bookkeeping in each node type.
type Base struct {
	line    int
	literal string
}

func (b Base) Line() int            { return b.line }
func (b Base) TokenLiteral() string { return b.literal }

func NewBase(line int, literal string) Base { return Base{line: line, literal: literal} }
