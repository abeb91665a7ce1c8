package bytecode

import (
	"fmt"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/value"
)

// FormatVersion is the .pbc/in-memory chunk format version. A reader refuses to load a chunk whose Version differs.
const FormatVersion uint32 = 1

// DebugInfo carries the source-line map and variable names a Chunk was
// compiled with. It is optional: a chunk loaded without debug
// info still executes, it just cannot decorate errors with a source line.
type DebugInfo struct {
	SourceFile    string
	LineNumbers   []int // parallel to Chunk.Code
	VariableNames []string
}

// Chunk is a compiled unit of bytecode: a deduplicated constant pool, the
// instruction stream, and optional debug info.
type Chunk struct {
	Version   uint32
	Constants []value.Value
	Code      []Instruction
	Debug     *DebugInfo

	// constIndex deduplicates scalar constants (Number/String/Boolean/
	// Null) by value; function prototypes are never deduplicated since
	// each Make site produces a distinct prototype.
	constIndex map[any]int
}

// NewChunk creates an empty chunk compiled from sourceFile.
func NewChunk(sourceFile string) *Chunk {
	return &Chunk{
		Version:    FormatVersion,
		Constants:  make([]value.Value, 0, 16),
		Code:       make([]Instruction, 0, 64),
		Debug:      &DebugInfo{SourceFile: sourceFile, LineNumbers: make([]int, 0, 64)},
		constIndex: make(map[any]int),
	}
}

// AddConstant interns v into the constant pool, returning its index.
// Scalars are deduplicated by value;
// function prototypes and other reference values are always appended.
func (c *Chunk) AddConstant(v value.Value) int {
	if key, ok := dedupeKey(v); ok {
		if idx, exists := c.constIndex[key]; exists {
			return idx
		}
		idx := len(c.Constants)
		c.Constants = append(c.Constants, v)
		c.constIndex[key] = idx
		return idx
	}
	idx := len(c.Constants)
	c.Constants = append(c.Constants, v)
	return idx
}

// dedupeKey returns a comparable key for scalar constants, or ok=false for
// values that should never be deduplicated (functions, lists, dicts).
func dedupeKey(v value.Value) (any, bool) {
	switch t := v.(type) {
	case value.Number:
		return [2]any{"num", float64(t)}, true
	case value.String:
		return [2]any{"str", string(t)}, true
	case value.Bool:
		return [2]any{"bool", bool(t)}, true
	default:
		if v == value.Null {
			return [1]any{"null"}, true
		}
	}
	return nil, false
}

// Emit appends an instruction compiled from source line and returns its
// index, used by the compiler's jump-patching bookkeeping.
func (c *Chunk) Emit(op OpCode, a int32, line int) int {
	idx := len(c.Code)
	c.Code = append(c.Code, Instruction{Op: op, A: a})
	c.Debug.LineNumbers = append(c.Debug.LineNumbers, line)
	return idx
}

// Patch overwrites the operand of the instruction at idx, used to fill in
// a forward jump target once the destination is known.
func (c *Chunk) Patch(idx int, a int32) {
	c.Code[idx].A = a
}

// Here returns the index the next Emit call will use, i.e. the jump
// target for "patch to here".
func (c *Chunk) Here() int { return len(c.Code) }

// LineFor returns the source line of instruction ip, or 0 if unknown.
func (c *Chunk) LineFor(ip int) int {
	if c.Debug == nil || ip < 0 || ip >= len(c.Debug.LineNumbers) {
		return 0
	}
	return c.Debug.LineNumbers[ip]
}

// FunctionProto is a compiled function: its parameter list (with inline
// default-filling bytecode emitted at the top of Chunk for missing
// arguments), its body chunk, and the upvalue capture plan a closure
// built from this prototype must follow.
type FunctionProto struct {
	Name        string
	ParamNames  []string
	HasDefault  []bool // parallel to ParamNames; true where the parameter has a default expression
	NumLocals   int
	Chunk       *Chunk
	Upvalues    []UpvalueDef
}

func (*FunctionProto) Type() string { return "FunctionProto" }
func (p *FunctionProto) String() string {
	return fmt.Sprintf("<function proto %s/%d>", p.Name, len(p.ParamNames))
}

// UpvalueDef describes how a Closure built from a FunctionProto captures
// one free variable: either a local slot of the immediately enclosing
// call frame, or an upvalue already captured by the enclosing closure.
// Every local is boxed in a *Cell from the moment its frame is created
// (see vm_calls.go and vm_exec.go), so capture is simply sharing the same *Cell pointer, no
// open/closed upvalue lifecycle is needed.
type UpvalueDef struct {
	FromParentLocal bool
	Index           int
}

// Cell is a boxed, shared mutable binding. Locals are always boxed so a
// closure capturing one observes later mutations, exactly like the tree interpreter's Environment reference.
type Cell struct{ Value value.Value }

// Closure is the bytecode VM's runtime Function value: a prototype plus
// the upvalue cells captured at the point of the enclosing OpMakeFunction
// instruction.
type Closure struct {
	Proto    *FunctionProto
	Upvalues []*Cell
}

func (*Closure) Type() string { return "Function" }
func (c *Closure) String() string {
	name := c.Proto.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("<function %s>", name)
}

// String renders a debug dump of the chunk; used by tests and by the
// disassembler's constant-pool section.
func (c *Chunk) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chunk(consts=%d, code=%d)", len(c.Constants), len(c.Code))
	return sb.String()
}
