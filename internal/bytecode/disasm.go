package bytecode

import (
	"fmt"
	"io"
)

// Disassembler prints a Chunk's constant pool and instruction stream in a
// human-readable form, used by `poh disassemble`.
type Disassembler struct {
	w     io.Writer
	chunk *Chunk
}

// NewDisassembler creates a Disassembler that writes to w.
func NewDisassembler(w io.Writer, chunk *Chunk) *Disassembler {
	return &Disassembler{w: w, chunk: chunk}
}

// Disassemble writes the full listing: the constant pool, then every
// instruction with its index, source line (if known), opcode, and
// operand, recursing into any FunctionProto found in the constant pool.
func (d *Disassembler) Disassemble() {
	name := d.chunk.Debug.SourceFile
	if name == "" {
		name = "<chunk>"
	}
	fmt.Fprintf(d.w, "== %s ==\n", name)
	fmt.Fprintf(d.w, "constants:\n")
	for i, c := range d.chunk.Constants {
		if proto, ok := c.(*FunctionProto); ok {
			fmt.Fprintf(d.w, "  [%4d] <function %s/%d>\n", i, proto.Name, len(proto.ParamNames))
			continue
		}
		fmt.Fprintf(d.w, "  [%4d] %s\n", i, c.String())
	}
	fmt.Fprintf(d.w, "code:\n")
	for offset := 0; offset < len(d.chunk.Code); offset++ {
		d.DisassembleInstruction(offset)
	}
	for _, c := range d.chunk.Constants {
		if proto, ok := c.(*FunctionProto); ok {
			fmt.Fprintln(d.w)
			NewDisassembler(d.w, proto.Chunk).Disassemble()
		}
	}
}

// DisassembleInstruction prints the single instruction at offset.
func (d *Disassembler) DisassembleInstruction(offset int) {
	ins := d.chunk.Code[offset]
	line := d.chunk.LineFor(offset)
	fmt.Fprintf(d.w, "%6d  line %-5d %-16s", offset, line, ins.Op)
	switch {
	case ins.Op == OpLoadConst && int(ins.A) < len(d.chunk.Constants):
		fmt.Fprintf(d.w, " %d  ; %s", ins.A, constantPreview(d.chunk.Constants[ins.A]))
	case ins.Op == OpLoadGlobal || ins.Op == OpStoreGlobal:
		fmt.Fprintf(d.w, " %d  ; %s", ins.A, constantPreview(d.chunk.Constants[ins.A]))
	case isJump(ins.Op):
		fmt.Fprintf(d.w, " -> %d", ins.A)
	default:
		fmt.Fprintf(d.w, " %d", ins.A)
	}
	fmt.Fprintln(d.w)
}

func constantPreview(v interface{ String() string }) string {
	s := v.String()
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
