package bytecode

import "github.com/AlhaqGH/pohlang/internal/ast"

// compileBuiltin lowers a phrasal built-in expression. Count of
// and contains ... in get dedicated opcodes since the VM can implement them
// without consulting ast.BuiltinKind; every other built-in compiles its
// arguments left to right and emits a single generic OpBuiltin carrying the
// BuiltinKind so the VM's builtin table (vm_builtins.go) can dispatch on it,
// mirroring evalBuiltin's argument evaluation order in internal/interp.
func (c *Compiler) compileBuiltin(e *ast.BuiltinExpression) error {
	for _, a := range e.Args {
		if err := c.compileExpression(a); err != nil {
			return err
		}
	}

	switch e.Builtin {
	case ast.BuiltinCountOf:
		c.chunk.Emit(OpLength, 0, e.Line())
	case ast.BuiltinContainsIn:
		// Args are [value, container]; OpContains expects the same order
		// so the VM can replicate builtinContains's per-container rules.
		c.chunk.Emit(OpContains, 0, e.Line())
	default:
		c.chunk.Emit(OpBuiltin, int32(e.Builtin), e.Line())
	}
	return nil
}
