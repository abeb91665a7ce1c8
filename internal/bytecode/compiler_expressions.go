package bytecode

import (
	"github.com/AlhaqGH/pohlang/internal/ast"
)

// builtinRepeatCoerce is a VM-internal pseudo-builtin (not part of the
// closed ast.BuiltinKind set) used only by compileRepeat to
// truncate-and-validate the loop count: truncate toward zero, then
// require the result to be non-negative.
// ast.BuiltinKind values are small (0..~22); this sentinel is chosen well
// outside that range so the VM's OpBuiltin dispatch can tell them apart.
const builtinRepeatCoerce = 1000

func (c *Compiler) compileExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		c.chunk.Emit(OpLoadConst, int32(c.constNumber(e.Value)), e.Line())
	case *ast.StringLiteral:
		c.chunk.Emit(OpLoadConst, int32(c.constString(e.Value)), e.Line())
	case *ast.BooleanLiteral:
		c.chunk.Emit(OpLoadConst, int32(c.constBool(e.Value)), e.Line())
	case *ast.NullLiteral:
		c.chunk.Emit(OpLoadConst, int32(c.constNull()), e.Line())
	case *ast.Identifier:
		c.loadVariable(e.Name, e.Line())
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			if err := c.compileExpression(el); err != nil {
				return err
			}
		}
		c.chunk.Emit(OpMakeList, int32(len(e.Elements)), e.Line())
	case *ast.DictLiteral:
		for i := range e.Keys {
			if err := c.compileExpression(e.Keys[i]); err != nil {
				return err
			}
			if err := c.compileExpression(e.Values[i]); err != nil {
				return err
			}
		}
		c.chunk.Emit(OpMakeDict, int32(len(e.Keys)), e.Line())
	case *ast.IndexExpression:
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		if err := c.compileExpression(e.Index); err != nil {
			return err
		}
		c.chunk.Emit(OpIndexGet, 0, e.Line())
	case *ast.UnaryExpression:
		return c.compileUnary(e)
	case *ast.BinaryExpression:
		return c.compileBinary(e)
	case *ast.CallExpression:
		return c.compileCall(e)
	case *ast.BuiltinExpression:
		return c.compileBuiltin(e)
	default:
		return c.compileErr(expr, "unsupported expression %T", expr)
	}
	return nil
}

func (c *Compiler) compileUnary(e *ast.UnaryExpression) error {
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	switch e.Operator {
	case "Not", "not":
		c.chunk.Emit(OpNot, 0, e.Line())
	case "Negate":
		c.chunk.Emit(OpNegate, 0, e.Line())
	default:
		return c.compileErr(e, "unknown unary operator %q", e.Operator)
	}
	return nil
}

// compileBinary short-circuits And/Or via jumps, and compiles every
// other operator straight-line.
func (c *Compiler) compileBinary(e *ast.BinaryExpression) error {
	switch e.Operator {
	case "And", "and":
		return c.compileShortCircuit(e, OpJumpIfFalse)
	case "Or", "or":
		return c.compileShortCircuit(e, OpJumpIfTrue)
	}

	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	op, ok := binaryOp[e.Operator]
	if !ok {
		return c.compileErr(e, "unknown binary operator %q", e.Operator)
	}
	c.chunk.Emit(op, 0, e.Line())
	return nil
}

// compileShortCircuit implements And (exitOp=JumpIfFalse) and Or
// (exitOp=JumpIfTrue) without materializing an intermediate boolean:
// duplicate Left so the exit test can consume a copy while leaving
// the original as the short-circuit result; otherwise discard it and
// evaluate Right as the result.
func (c *Compiler) compileShortCircuit(e *ast.BinaryExpression, exitOp OpCode) error {
	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	c.chunk.Emit(OpDuplicate, 0, e.Line())
	shortCircuit := c.emitJump(exitOp, e.Line())
	c.chunk.Emit(OpPop, 0, e.Line())
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	end := c.emitJump(OpJump, e.Line())
	c.patchJumpHere(shortCircuit)
	c.patchJumpHere(end)
	return nil
}

var binaryOp = map[string]OpCode{
	"Plus":               OpAdd,
	"Minus":              OpSubtract,
	"Times":              OpMultiply,
	"DividedBy":          OpDivide,
	"Modulo":             OpModulo,
	"Equal":              OpEqual,
	"NotEqual":           OpNotEqual,
	"LessThan":           OpLess,
	"LessThanOrEqual":    OpLessEqual,
	"GreaterThan":        OpGreater,
	"GreaterThanOrEqual": OpGreaterEqual,
}

// compileCall handles both `f(args)` and the phrasal `call f with a, b`
// forms; both parse to the same CallExpression node.
func (c *Compiler) compileCall(e *ast.CallExpression) error {
	if err := c.compileExpression(e.Callee); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.compileExpression(a); err != nil {
			return err
		}
	}
	c.chunk.Emit(OpCall, int32(len(e.Args)), e.Line())
	return nil
}
