package bytecode

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// Compiler lowers an AST to a Chunk. One Compiler instance
// compiles one function body (the top-level program is the outermost
// "function" with no parameters); a nested Make statement spawns a child
// Compiler whose parent pointer is used to resolve free variables into
// upvalue captures, one compiler per function body nested the same way
// its bodies nest in source.
type Compiler struct {
	parent   *Compiler
	chunk    *Chunk
	locals   []local
	scope    int
	nextSlot int
	maxSlot  int

	globals map[string]bool // names known, at compile time, to be module globals

	// loops holds one loopContext per enclosing loop (its break/continue
	// jumps and finally depth), supporting Stop/Skip and running
	// enclosing `finally` blocks before a non-local loop exit.
	loops []loopContext

	upvalues []UpvalueDef
	upvalIdx map[string]int

	// finallyStack holds the bodies of every `finally` block currently
	// enclosing the statement being compiled, innermost last. Return/
	// Stop/Skip compile each one inline (innermost first) before their
	// actual exit jump, so finally always runs.
	finallyStack []*ast.BlockStatement
}

type local struct {
	name  string
	depth int
	slot  int
}

type loopContext struct {
	continueTarget int   // >= 0: backward Loop target (While); -1: Repeat, use continueJumps instead
	continueJumps  []int // forward jumps patched to the decrement step once it is known (Repeat)
	breakJumps     []int
	finallyDepth   int // number of c.finallyStack entries active when the loop was entered
}

// NewCompiler creates a Compiler for a top-level program or, via
// newChildCompiler, for a nested function body.
func NewCompiler(sourceFile string) *Compiler {
	return &Compiler{
		chunk:    NewChunk(sourceFile),
		globals:  make(map[string]bool),
		upvalIdx: make(map[string]int),
	}
}

func newChildCompiler(parent *Compiler, name string) *Compiler {
	return &Compiler{
		parent:   parent,
		chunk:    NewChunk(parent.chunk.Debug.SourceFile),
		globals:  parent.globals,
		upvalIdx: make(map[string]int),
	}
}

// Compile compiles program into a top-level Chunk. sourceFile is recorded
// in debug info and used in diagnostics.
func Compile(program *ast.Program, sourceFile string) (*Chunk, error) {
	c := NewCompiler(sourceFile)
	for _, stmt := range program.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}
	c.chunk.Emit(OpHalt, 0, lastLine(program))
	c.chunk.Debug.VariableNames = c.variableNames()
	return c.chunk, nil
}

func lastLine(p *ast.Program) int {
	if len(p.Statements) == 0 {
		return 0
	}
	return p.Statements[len(p.Statements)-1].Line()
}

func (c *Compiler) compileErr(node ast.Node, format string, args ...any) error {
	return fmt.Errorf("compile error at line %d: %s", node.Line(), fmt.Sprintf(format, args...))
}

// --- scope / local slot management ---

func (c *Compiler) beginScope() { c.scope++ }

// endScope pops every local declared in the scope being left, freeing
// their slots for reuse by later sibling scopes.
func (c *Compiler) endScope() {
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth == c.scope {
		c.locals = c.locals[:len(c.locals)-1]
	}
	c.scope--
	n := 0
	if len(c.locals) > 0 {
		n = c.locals[len(c.locals)-1].slot + 1
	}
	c.nextSlot = n
}

// declareLocal allocates a new slot for name in the current scope.
func (c *Compiler) declareLocal(name string) int {
	slot := c.nextSlot
	c.nextSlot++
	if c.nextSlot > c.maxSlot {
		c.maxSlot = c.nextSlot
	}
	c.locals = append(c.locals, local{name: name, depth: c.scope, slot: slot})
	return slot
}

// resolveLocal finds name in this compiler's own locals, innermost
// declaration wins (later entries shadow earlier ones).
func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].slot, true
		}
	}
	return -1, false
}

// resolveUpvalue finds name as a local or upvalue of an enclosing
// Compiler, recording (and deduplicating) an UpvalueDef for it so the
// current function can load it as OpLoadUpvalue.
func (c *Compiler) resolveUpvalue(name string) (int, bool) {
	if c.parent == nil {
		return -1, false
	}
	if idx, ok := c.upvalIdx[name]; ok {
		return idx, true
	}
	if slot, ok := c.parent.resolveLocal(name); ok {
		return c.addUpvalue(name, UpvalueDef{FromParentLocal: true, Index: slot}), true
	}
	if idx, ok := c.parent.resolveUpvalue(name); ok {
		return c.addUpvalue(name, UpvalueDef{FromParentLocal: false, Index: idx}), true
	}
	return -1, false
}

func (c *Compiler) addUpvalue(name string, def UpvalueDef) int {
	idx := len(c.upvalues)
	c.upvalues = append(c.upvalues, def)
	c.upvalIdx[name] = idx
	return idx
}

// variableKind classifies how a read/write of name should compile.
type variableKind int

const (
	varLocal variableKind = iota
	varUpvalue
	varGlobal
)

func (c *Compiler) resolveVariable(name string) (variableKind, int) {
	if slot, ok := c.resolveLocal(name); ok {
		return varLocal, slot
	}
	if idx, ok := c.resolveUpvalue(name); ok {
		return varUpvalue, idx
	}
	return varGlobal, 0
}

// --- jump patching ---

func (c *Compiler) emitJump(op OpCode, line int) int {
	return c.chunk.Emit(op, -1, line)
}

func (c *Compiler) patchJumpHere(idx int) {
	c.chunk.Patch(idx, int32(c.chunk.Here()))
}

func (c *Compiler) patchJumpHere2(idx, target int) {
	c.chunk.Patch(idx, int32(target))
}

func (c *Compiler) emitLoop(target int, line int) {
	c.chunk.Emit(OpLoop, int32(target), line)
}

// --- constants ---

func (c *Compiler) constNumber(v float64) int { return c.chunk.AddConstant(value.Number(v)) }
func (c *Compiler) constString(v string) int  { return c.chunk.AddConstant(value.String(v)) }
func (c *Compiler) constBool(v bool) int      { return c.chunk.AddConstant(value.Bool(v)) }
func (c *Compiler) constNull() int            { return c.chunk.AddConstant(value.Null) }

func (c *Compiler) variableNames() []string {
	names := make([]string, c.maxSlot)
	for _, l := range c.locals {
		if l.slot < len(names) {
			names[l.slot] = l.name
		}
	}
	return names
}
