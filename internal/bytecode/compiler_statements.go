package bytecode

import (
	"github.com/AlhaqGH/pohlang/internal/ast"
)

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return c.compileBlock(s)
	case *ast.WriteStatement:
		return c.compileWrite(s)
	case *ast.AskStatement:
		return c.compileAsk(s)
	case *ast.SetStatement:
		return c.compileSet(s)
	case *ast.IncDecStatement:
		return c.compileIncDec(s)
	case *ast.IfStatement:
		return c.compileIf(s)
	case *ast.WhileStatement:
		return c.compileWhile(s)
	case *ast.RepeatStatement:
		return c.compileRepeat(s)
	case *ast.MakeStatement:
		return c.compileMake(s)
	case *ast.ReturnStatement:
		return c.compileReturn(s)
	case *ast.UseStatement:
		return c.compileUse(s)
	case *ast.ImportStatement:
		return c.compileImport(s)
	case *ast.TryStatement:
		return c.compileTry(s)
	case *ast.ThrowStatement:
		return c.compileThrow(s)
	case *ast.ExpressionStatement:
		if err := c.compileExpression(s.Expr); err != nil {
			return err
		}
		c.chunk.Emit(OpPop, 0, s.Line())
		return nil
	case *ast.BreakStatement:
		return c.compileBreak(s)
	case *ast.ContinueStatement:
		return c.compileContinue(s)
	default:
		return c.compileErr(stmt, "unsupported statement %T", stmt)
	}
}

func (c *Compiler) compileBlock(b *ast.BlockStatement) error {
	c.beginScope()
	for _, stmt := range b.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	c.endScope()
	return nil
}

func (c *Compiler) compileWrite(s *ast.WriteStatement) error {
	if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	c.chunk.Emit(OpPrint, 0, s.Line())
	return nil
}

func (c *Compiler) compileAsk(s *ast.AskStatement) error {
	c.chunk.Emit(OpInput, 0, s.Line())
	c.storeVariable(s.Name, s.Line())
	return nil
}

// compileSet writes to the nearest scope (local, then upvalue, then
// global) that already defines the name; otherwise defines it as a new
// local in the current function, or as a new global at the top level.
func (c *Compiler) compileSet(s *ast.SetStatement) error {
	if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	c.storeVariable(s.Name, s.Line())
	return nil
}

// storeVariable pops the top-of-stack value into name, declaring it if no
// enclosing scope already defines it.
func (c *Compiler) storeVariable(name string, line int) {
	switch kind, idx := c.resolveVariable(name); kind {
	case varLocal:
		c.chunk.Emit(OpStoreLocal, int32(idx), line)
	case varUpvalue:
		c.chunk.Emit(OpStoreUpvalue, int32(idx), line)
	default:
		if c.parent == nil {
			c.globals[name] = true
			c.chunk.Emit(OpStoreGlobal, int32(c.constString(name)), line)
			return
		}
		// Inside a function, an unresolved name becomes a new local
		// (the innermost scope), unless it is already a known module
		// global, in which case Set writes through to it.
		if c.globals[name] {
			c.chunk.Emit(OpStoreGlobal, int32(c.constString(name)), line)
			return
		}
		slot := c.declareLocal(name)
		c.chunk.Emit(OpStoreLocal, int32(slot), line)
	}
}

func (c *Compiler) loadVariable(name string, line int) {
	switch kind, idx := c.resolveVariable(name); kind {
	case varLocal:
		c.chunk.Emit(OpLoadLocal, int32(idx), line)
	case varUpvalue:
		c.chunk.Emit(OpLoadUpvalue, int32(idx), line)
	default:
		c.chunk.Emit(OpLoadGlobal, int32(c.constString(name)), line)
	}
}

func (c *Compiler) compileIncDec(s *ast.IncDecStatement) error {
	c.loadVariable(s.Name, s.Line())
	if s.Amount != nil {
		if err := c.compileExpression(s.Amount); err != nil {
			return err
		}
	} else {
		c.chunk.Emit(OpLoadConst, int32(c.constNumber(1)), s.Line())
	}
	if s.Decrement {
		c.chunk.Emit(OpSubtract, 0, s.Line())
	} else {
		c.chunk.Emit(OpAdd, 0, s.Line())
	}
	c.storeVariable(s.Name, s.Line())
	return nil
}

// compileIf compiles: test; JumpIfFalse L1; then; Jump L2;
// patch L1; else (or nothing); patch L2.
func (c *Compiler) compileIf(s *ast.IfStatement) error {
	if err := c.compileExpression(s.Condition); err != nil {
		return err
	}
	jumpToElse := c.emitJump(OpJumpIfFalse, s.Line())
	if err := c.compileStatement(s.Then); err != nil {
		return err
	}
	jumpToEnd := c.emitJump(OpJump, s.Line())
	c.patchJumpHere(jumpToElse)
	if s.Else != nil {
		if err := c.compileStatement(s.Else); err != nil {
			return err
		}
	}
	c.patchJumpHere(jumpToEnd)
	return nil
}

// compileWhile compiles: loop-start; test; JumpIfFalse Lend;
// body; Loop loop-start; patch Lend.
func (c *Compiler) compileWhile(s *ast.WhileStatement) error {
	loopStart := c.chunk.Here()
	if err := c.compileExpression(s.Condition); err != nil {
		return err
	}
	exitJump := c.emitJump(OpJumpIfFalse, s.Line())

	c.loops = append(c.loops, loopContext{continueTarget: loopStart, finallyDepth: len(c.finallyStack)})
	if err := c.compileStatement(s.Body); err != nil {
		return err
	}
	loop := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	c.emitLoop(loopStart, s.Line())
	c.patchJumpHere(exitJump)
	for _, bj := range loop.breakJumps {
		c.patchJumpHere(bj)
	}
	return nil
}

// compileRepeat decrements a hidden local counter each iteration;
// `Repeat N times` coerces N by truncating toward zero and rejects a
// negative count as a RuntimeError.
func (c *Compiler) compileRepeat(s *ast.RepeatStatement) error {
	if err := c.compileExpression(s.Count); err != nil {
		return err
	}
	c.chunk.Emit(OpBuiltin, int32(builtinRepeatCoerce), s.Line())
	counterSlot := c.declareLocal("") // unnamed hidden counter, not resolvable by name
	c.chunk.Emit(OpStoreLocal, int32(counterSlot), s.Line())

	loopStart := c.chunk.Here()
	c.chunk.Emit(OpLoadLocal, int32(counterSlot), s.Line())
	c.chunk.Emit(OpLoadConst, int32(c.constNumber(0)), s.Line())
	c.chunk.Emit(OpGreater, 0, s.Line())
	exitJump := c.emitJump(OpJumpIfFalse, s.Line())

	c.loops = append(c.loops, loopContext{continueTarget: -1, finallyDepth: len(c.finallyStack)})
	if err := c.compileStatement(s.Body); err != nil {
		return err
	}
	loop := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	decrementTarget := c.chunk.Here()
	for _, cj := range loop.continueJumps {
		c.patchJumpHere2(cj, decrementTarget)
	}
	c.chunk.Emit(OpDecrement, int32(counterSlot), s.Line())
	c.emitLoop(loopStart, s.Line())
	c.patchJumpHere(exitJump)
	for _, bj := range loop.breakJumps {
		c.patchJumpHere(bj)
	}
	return nil
}

func (c *Compiler) compileBreak(s *ast.BreakStatement) error {
	if len(c.loops) == 0 {
		return c.compileErr(s, "Stop used outside a loop")
	}
	top := len(c.loops) - 1
	if err := c.inlineFinallySince(c.loops[top].finallyDepth); err != nil {
		return err
	}
	jump := c.emitJump(OpJump, s.Line())
	c.loops[top].breakJumps = append(c.loops[top].breakJumps, jump)
	return nil
}

func (c *Compiler) compileContinue(s *ast.ContinueStatement) error {
	if len(c.loops) == 0 {
		return c.compileErr(s, "Skip used outside a loop")
	}
	top := len(c.loops) - 1
	if err := c.inlineFinallySince(c.loops[top].finallyDepth); err != nil {
		return err
	}
	if c.loops[top].continueTarget < 0 {
		// Repeat: continuing must still decrement the hidden counter, so
		// jump forward to the decrement step, patched once compileRepeat
		// knows its address.
		jump := c.emitJump(OpJump, s.Line())
		c.loops[top].continueJumps = append(c.loops[top].continueJumps, jump)
		return nil
	}
	c.emitLoop(c.loops[top].continueTarget, s.Line())
	return nil
}

// inlineFinallySince re-emits every pending finally block from index start
// to the top of c.finallyStack (innermost first), used before Return/Stop/
// Skip so finally always runs on every exit path.
func (c *Compiler) inlineFinallySince(start int) error {
	for i := len(c.finallyStack) - 1; i >= start; i-- {
		body := c.finallyStack[i]
		if body == nil {
			continue
		}
		if err := c.compileBlock(body); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileReturn(s *ast.ReturnStatement) error {
	if err := c.inlineFinallySince(0); err != nil {
		return err
	}
	if s.Value != nil {
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
	} else {
		c.chunk.Emit(OpLoadConst, int32(c.constNull()), s.Line())
	}
	c.chunk.Emit(OpReturn, 0, s.Line())
	return nil
}

func (c *Compiler) compileUse(s *ast.UseStatement) error {
	c.loadVariable(s.Name, s.Line())
	for _, a := range s.Args {
		if err := c.compileExpression(a); err != nil {
			return err
		}
	}
	c.chunk.Emit(OpCall, int32(len(s.Args)), s.Line())
	c.chunk.Emit(OpPop, 0, s.Line())
	return nil
}

func (c *Compiler) compileImport(s *ast.ImportStatement) error {
	c.chunk.Emit(OpImport, int32(c.constString(s.Path)), s.Line())
	return nil
}

// compileMake compiles a function definition. Block-form bodies compile
// as-is; inline-form bodies (a single non-block statement) are wrapped in
// a block so both forms reach the implicit null return emitted below.
func (c *Compiler) compileMake(s *ast.MakeStatement) error {
	child := newChildCompiler(c, s.Name)
	for _, p := range s.Params {
		child.declareLocal(p.Name)
	}
	// Inline default-parameter filling: for each
	// optional parameter, if OpLoadArgc reports fewer supplied args than
	// this parameter's 1-based position, evaluate its default expression
	// (in the callee's own frame, so it may reference earlier parameters)
	// and store it into the parameter's slot.
	for i, p := range s.Params {
		if p.Default == nil {
			continue
		}
		child.chunk.Emit(OpLoadArgc, 0, s.Line())
		child.chunk.Emit(OpLoadConst, int32(child.constNumber(float64(i))), s.Line())
		child.chunk.Emit(OpLessEqual, 0, s.Line())
		skip := child.emitJump(OpJumpIfFalse, s.Line())
		if err := child.compileExpression(p.Default); err != nil {
			return err
		}
		child.chunk.Emit(OpStoreLocal, int32(i), s.Line())
		child.patchJumpHere(skip)
	}

	body := s.Body
	if _, ok := body.(*ast.BlockStatement); !ok {
		body = &ast.BlockStatement{Statements: []ast.Statement{body}}
	}
	if err := child.compileStatement(body); err != nil {
		return err
	}
	// Falling off the end returns null.
	child.chunk.Emit(OpLoadConst, int32(child.constNull()), s.Line())
	child.chunk.Emit(OpReturn, 0, s.Line())
	child.chunk.Debug.VariableNames = child.variableNames()

	proto := &FunctionProto{
		Name:       s.Name,
		ParamNames: paramNames(s.Params),
		HasDefault: hasDefaultFlags(s.Params),
		NumLocals:  child.maxSlot,
		Chunk:      child.chunk,
		Upvalues:   child.upvalues,
	}
	c.chunk.Emit(OpMakeFunction, int32(c.chunk.AddConstant(proto)), s.Line())
	c.storeVariable(s.Name, s.Line())
	return nil
}

func paramNames(params []ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func hasDefaultFlags(params []ast.Param) []bool {
	flags := make([]bool, len(params))
	for i, p := range params {
		flags[i] = p.Default != nil
	}
	return flags
}

func (c *Compiler) compileThrow(s *ast.ThrowStatement) error {
	if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	c.chunk.Emit(OpThrow, 0, s.Line())
	return nil
}

// compileTry emits PushTryHandler before the body; PopTryHandler plus the
// inlined finally on the normal-exit path; each catch arm tests the
// thrown error (still on the stack) against its declared type, binds it
// if requested, and falls through to its own inlined finally; an error
// matching no arm is re-thrown after the finally runs, so finally still
// executes on an uncaught-here propagation.
func (c *Compiler) compileTry(s *ast.TryStatement) error {
	if s.Finally != nil {
		c.finallyStack = append(c.finallyStack, s.Finally)
	} else {
		c.finallyStack = append(c.finallyStack, nil)
	}

	pushIdx := c.emitJump(OpPushTryHandler, s.Line())
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	c.chunk.Emit(OpPopTryHandler, 0, s.Line())
	if err := c.inlineFinallyBody(s.Finally); err != nil {
		return err
	}
	endJump := c.emitJump(OpJump, s.Line())

	c.patchJumpHere(pushIdx) // catch dispatch entry; stack top is the thrown error
	var doneJumps []int
	for _, clause := range s.Catches {
		var testSkip int
		hasTest := clause.Type != ""
		if hasTest {
			c.chunk.Emit(OpErrorKindMatches, int32(c.constString(clause.Type)), clause.Line)
			testSkip = c.emitJump(OpJumpIfFalse, clause.Line)
		}
		if clause.Binding != "" {
			c.storeVariable(clause.Binding, clause.Line)
		} else {
			c.chunk.Emit(OpPop, 0, clause.Line)
		}
		if err := c.compileBlock(clause.Body); err != nil {
			return err
		}
		if err := c.inlineFinallyBody(s.Finally); err != nil {
			return err
		}
		doneJumps = append(doneJumps, c.emitJump(OpJump, clause.Line))
		if hasTest {
			c.patchJumpHere(testSkip)
		}
	}
	// No arm matched: run finally, then re-throw to an outer handler (or
	// terminate if none exists).
	if err := c.inlineFinallyBody(s.Finally); err != nil {
		return err
	}
	c.chunk.Emit(OpThrow, 0, s.Line())

	c.patchJumpHere(endJump)
	for _, dj := range doneJumps {
		c.patchJumpHere(dj)
	}
	c.finallyStack = c.finallyStack[:len(c.finallyStack)-1]
	return nil
}

// inlineFinallyBody compiles finally's statements directly at the call
// site, with no handler bookkeeping of its own.
func (c *Compiler) inlineFinallyBody(finally *ast.BlockStatement) error {
	if finally == nil {
		return nil
	}
	return c.compileBlock(finally)
}
