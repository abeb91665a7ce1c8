package ast

import (
	"fmt"
	"strings"
)

func (*WriteStatement) statementNode()      {}
func (*AskStatement) statementNode()        {}
func (*SetStatement) statementNode()        {}
func (*IncDecStatement) statementNode()     {}
func (*IfStatement) statementNode()         {}
func (*WhileStatement) statementNode()      {}
func (*RepeatStatement) statementNode()     {}
func (*MakeStatement) statementNode()       {}
func (*ReturnStatement) statementNode()     {}
func (*UseStatement) statementNode()        {}
func (*ImportStatement) statementNode()     {}
func (*TryStatement) statementNode()        {}
func (*ThrowStatement) statementNode()      {}
func (*BlockStatement) statementNode()      {}
func (*ExpressionStatement) statementNode() {}
func (*BreakStatement) statementNode()      {}
func (*ContinueStatement) statementNode()   {}

// BlockStatement is a sequence of statements executed in lexical order
// inside its own scope.
type BlockStatement struct {
	Base
	Statements []Statement
}

func (b *BlockStatement) String() string { return fmt.Sprintf("{ %d stmts }", len(b.Statements)) }

// WriteStatement evaluates Value and emits it followed by a newline.
type WriteStatement struct {
	Base
	Value Expression
}

func (w *WriteStatement) String() string { return "Write " + w.Value.String() }

// AskStatement reads one line of input and binds it, as a string, to Name.
type AskStatement struct {
	Base
	Name string
}

func (a *AskStatement) String() string { return "Ask for " + a.Name }

// SetStatement is `Set <name> to <expr>`.
type SetStatement struct {
	Base
	Name  string
	Value Expression
}

func (s *SetStatement) String() string { return fmt.Sprintf("Set %s to %s", s.Name, s.Value.String()) }

// IncDecStatement is `Increase`/`Decrease <name> [by <expr>]`; Amount is
// nil when the default step of 1 applies.
type IncDecStatement struct {
	Base
	Name      string
	Amount    Expression
	Decrement bool
}

func (s *IncDecStatement) String() string {
	verb := "Increase"
	if s.Decrement {
		verb = "Decrease"
	}
	return fmt.Sprintf("%s %s", verb, s.Name)
}

// IfStatement covers both block (`If ... Otherwise ... End`) and inline
// (`If e s Otherwise s`) forms; Then/Else hold whatever statement form
// the parser produced for each branch. Else is nil when there is no
// Otherwise clause.
type IfStatement struct {
	Base
	Condition Expression
	Then      Statement
	Else      Statement
}

func (s *IfStatement) String() string { return "If " + s.Condition.String() }

// WhileStatement is `While <expr> ... End`.
type WhileStatement struct {
	Base
	Condition Expression
	Body      Statement
}

func (s *WhileStatement) String() string { return "While " + s.Condition.String() }

// RepeatStatement is `Repeat <expr> [times] ... End`.
type RepeatStatement struct {
	Base
	Count Expression
	Body  Statement
}

func (s *RepeatStatement) String() string { return "Repeat " + s.Count.String() + " times" }

// Param is one formal parameter of a Make statement: a name and an
// optional default-value expression.
type Param struct {
	Name    string
	Default Expression
}

// MakeStatement defines a function, binding it by Name in the current
// scope; Body may be a *BlockStatement (block form)
// or any single Statement (inline form).
type MakeStatement struct {
	Base
	Name   string
	Params []Param
	Body   Statement
}

func (s *MakeStatement) String() string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("Make %s with %s", s.Name, strings.Join(names, ", "))
}

// ReturnStatement is `Return [<expr>]`; Value is nil for a bare Return.
type ReturnStatement struct {
	Base
	Value Expression
}

func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "Return"
	}
	return "Return " + s.Value.String()
}

// UseStatement is the statement-form call `Use <name> with <args>`.
type UseStatement struct {
	Base
	Name string
	Args []Expression
}

func (s *UseStatement) String() string { return "Use " + s.Name }

// ImportStatement is `Import "<path>"`.
type ImportStatement struct {
	Base
	Path string
}

func (s *ImportStatement) String() string { return fmt.Sprintf("Import %q", s.Path) }

// CatchClause is one `if error [of type "T"] [as name] ...` arm of a
// try statement. Type is "" for a catch-all arm; Binding is "" when the
// error value is not bound to a name.
type CatchClause struct {
	Line    int
	Type    string
	Binding string
	Body    *BlockStatement
}

// TryStatement is `try this: ... (if error ...)+ [finally: ...] end try`.
type TryStatement struct {
	Base
	Body    *BlockStatement
	Catches []*CatchClause
	Finally *BlockStatement
}

func (s *TryStatement) String() string { return "try this:" }

// ThrowStatement raises an error value; a bare string is wrapped as
// RuntimeError by the interpreter/compiler.
type ThrowStatement struct {
	Base
	Value Expression
}

func (s *ThrowStatement) String() string { return "throw " + s.Value.String() }

// ExpressionStatement wraps a bare expression used as a statement (the
// discarded value of a phrasal call, for example).
type ExpressionStatement struct {
	Base
	Expr Expression
}

func (s *ExpressionStatement) String() string { return s.Expr.String() }

// BreakStatement is `Stop`; valid only inside a loop body.
type BreakStatement struct{ Base }

func (*BreakStatement) String() string { return "Stop" }

// ContinueStatement is `Skip`; valid only inside a loop body.
type ContinueStatement struct{ Base }

func (*ContinueStatement) String() string { return "Skip" }
