package ast

import (
	"fmt"
	"strings"
)

func (*NumberLiteral) expressionNode()         {}
func (*StringLiteral) expressionNode()         {}
func (*BooleanLiteral) expressionNode()        {}
func (*NullLiteral) expressionNode()           {}
func (*Identifier) expressionNode()            {}
func (*ListLiteral) expressionNode()           {}
func (*DictLiteral) expressionNode()           {}
func (*IndexExpression) expressionNode()       {}
func (*UnaryExpression) expressionNode()       {}
func (*BinaryExpression) expressionNode()      {}
func (*CallExpression) expressionNode()        {}
func (*BuiltinExpression) expressionNode()     {}

// NumberLiteral is a 64-bit float literal; integer literals also parse
// to this node.
type NumberLiteral struct {
	Base
	Value float64
}

func NewNumberLiteral(line int, lit string, v float64) *NumberLiteral {
	return &NumberLiteral{Base: NewBase(line, lit), Value: v}
}
func (n *NumberLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

// StringLiteral is a double-quoted string with escapes already resolved
// by the lexer.
type StringLiteral struct {
	Base
	Value string
}

func NewStringLiteral(line int, lit, v string) *StringLiteral {
	return &StringLiteral{Base: NewBase(line, lit), Value: v}
}
func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }

type BooleanLiteral struct {
	Base
	Value bool
}

func NewBooleanLiteral(line int, lit string, v bool) *BooleanLiteral {
	return &BooleanLiteral{Base: NewBase(line, lit), Value: v}
}
func (b *BooleanLiteral) String() string { return b.literal }

type NullLiteral struct{ Base }

func NewNullLiteral(line int, lit string) *NullLiteral { return &NullLiteral{Base: NewBase(line, lit)} }
func (*NullLiteral) String() string                    { return "null" }

// Identifier is a bare variable or function name reference.
type Identifier struct {
	Base
	Name string
}

func NewIdentifier(line int, name string) *Identifier {
	return &Identifier{Base: NewBase(line, name), Name: name}
}
func (i *Identifier) String() string { return i.Name }

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Base
	Elements []Expression
}

func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictLiteral is `{ "k": v, ... }`. Keys are expressions that must
// evaluate to strings; most commonly string literals.
type DictLiteral struct {
	Base
	Keys   []Expression
	Values []Expression
}

func (d *DictLiteral) String() string { return "{...}" }

// IndexExpression is `e[e]`, including negative-integer indices.
type IndexExpression struct {
	Base
	Left  Expression
	Index Expression
}

func (ix *IndexExpression) String() string { return ix.Left.String() + "[" + ix.Index.String() + "]" }

// UnaryExpression is prefix `Not` or unary `-`.
type UnaryExpression struct {
	Base
	Operator string
	Right    Expression
}

func (u *UnaryExpression) String() string { return u.Operator + " " + u.Right.String() }

// BinaryExpression covers arithmetic, comparison, and logical (And/Or)
// operators; the interpreter and compiler dispatch short-circuiting
// behavior for "And"/"Or" based on Operator.
type BinaryExpression struct {
	Base
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// CallExpression is `f(args)` or the phrasal `call f with a, b`.
type CallExpression struct {
	Base
	Callee Expression
	Args   []Expression
}

func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// BuiltinKind enumerates the closed set of phrasal built-in expressions.
type BuiltinKind int

const (
	BuiltinTotalOf BuiltinKind = iota
	BuiltinSmallestIn
	BuiltinLargestIn
	BuiltinAbsoluteValueOf
	BuiltinRound
	BuiltinRoundDown
	BuiltinRoundUp
	BuiltinMakeUppercase
	BuiltinMakeLowercase
	BuiltinTrimSpacesFrom
	BuiltinFirstIn
	BuiltinLastIn
	BuiltinReverseOf
	BuiltinCountOf
	BuiltinJoinWith
	BuiltinSplitBy
	BuiltinContainsIn
	BuiltinRemoveFrom
	BuiltinAppendTo
	BuiltinInsertAtIn
	BuiltinErrorOfTypeWithMessage
	BuiltinErrorMessageOf
	BuiltinErrorTypeOf
)

// BuiltinNames gives the canonical phrase for each kind, used in
// diagnostics and disassembly.
var BuiltinNames = map[BuiltinKind]string{
	BuiltinTotalOf:                "total of",
	BuiltinSmallestIn:             "smallest in",
	BuiltinLargestIn:              "largest in",
	BuiltinAbsoluteValueOf:        "absolute value of",
	BuiltinRound:                  "round",
	BuiltinRoundDown:              "round down",
	BuiltinRoundUp:                "round up",
	BuiltinMakeUppercase:          "make uppercase",
	BuiltinMakeLowercase:          "make lowercase",
	BuiltinTrimSpacesFrom:         "trim spaces from",
	BuiltinFirstIn:                "first in",
	BuiltinLastIn:                 "last in",
	BuiltinReverseOf:              "reverse of",
	BuiltinCountOf:                "count of",
	BuiltinJoinWith:               "join ... with",
	BuiltinSplitBy:                "split ... by",
	BuiltinContainsIn:             "contains ... in",
	BuiltinRemoveFrom:             "remove ... from",
	BuiltinAppendTo:               "append ... to",
	BuiltinInsertAtIn:             "insert ... at ... in",
	BuiltinErrorOfTypeWithMessage: "error of type ... with message",
	BuiltinErrorMessageOf:         "error message of",
	BuiltinErrorTypeOf:            "error type of",
}

// BuiltinExpression is a single node for every phrasal built-in; Args
// holds its operands in the fixed order documented per kind.
type BuiltinExpression struct {
	Base
	Builtin BuiltinKind
	Args    []Expression
}

func (b *BuiltinExpression) String() string {
	parts := make([]string, len(b.Args))
	for i, a := range b.Args {
		parts[i] = a.String()
	}
	return BuiltinNames[b.Builtin] + "(" + strings.Join(parts, ", ") + ")"
}
