package value

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/ast"
)

// Environment is the minimal scope-chain contract a closure needs.
// internal/interp.Environment implements this; defining it here (rather
// than importing interp) keeps internal/value free of a dependency on
// the tree interpreter, since the bytecode VM also depends on this
// package but never on interp.
type Environment interface {
	Get(name string) (Value, bool)
	// Set writes to the nearest scope that already defines name and
	// reports whether such a scope was found.
	Set(name string, v Value) bool
	// Define creates or overwrites a binding in the current scope.
	Define(name string, v Value)
}

// Param is one formal parameter: a name and an optional default-value
// expression, evaluated lazily in the function's captured environment
// at call time.
type Param struct {
	Name    string
	Default ast.Expression
}

// Function is a first-class, closure-capturing procedure value
// produced by tree-walked `Make` statements. Two functions are never
// equal unless they are the same pointer.
type Function struct {
	Name    string
	Params  []Param
	Body    ast.Statement
	Closure Environment
}

func (*Function) Type() string { return "Function" }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("<function %s>", name)
}
