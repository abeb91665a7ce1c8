package bytecode

import "github.com/AlhaqGH/pohlang/internal/value"

// Optimize runs the four mandatory passes over chunk, in order, then
// recurses into every nested function prototype's own chunk:
//
//  1. constant folding: fold LoadConst/LoadConst/<op> triples (and
//     LoadConst/<unary op> pairs) over literal operands into one LoadConst.
//  2. instruction fusion: LoadLocal s; LoadConst(1); Add; StoreLocal s
//     becomes Increment s (and the Subtract form becomes Decrement s).
//  3. peephole dead-code removal: instructions after an unconditional
//     terminator that no jump targets are unreachable and dropped.
//  4. no-op jump / line-table compaction: Jump-to-next-instruction is
//     removed and the line-number table is recompacted alongside the code.
//
// Every pass may change instruction indices, so each is immediately followed
// by remapping every jump operand through the pass's old-index -> new-index
// table before the next pass runs.
func Optimize(chunk *Chunk) {
	chunk.Code, chunk.Debug.LineNumbers = runPass(chunk, foldConstants)
	chunk.Code, chunk.Debug.LineNumbers = runPass(chunk, fuseIncDec)
	chunk.Code, chunk.Debug.LineNumbers = runPass(chunk, removeUnreachable)
	chunk.Code, chunk.Debug.LineNumbers = runPass(chunk, removeNoopJumps)

	for _, cst := range chunk.Constants {
		if proto, ok := cst.(*FunctionProto); ok {
			Optimize(proto.Chunk)
		}
	}
}

// passFunc performs one rewrite of chunk's current code, returning the
// rewritten code/lines and an old-index -> new-index table of length
// len(oldCode)+1 (the extra trailing entry maps "one past the end", the
// valid target of a jump patched to Here() at the very end of a chunk).
type passFunc func(chunk *Chunk, code []Instruction, lines []int) ([]Instruction, []int, []int)

func runPass(chunk *Chunk, pass passFunc) ([]Instruction, []int) {
	newCode, newLines, oldToNew := pass(chunk, chunk.Code, chunk.Debug.LineNumbers)
	for i := range newCode {
		if isJump(newCode[i].Op) {
			newCode[i].A = int32(oldToNew[newCode[i].A])
		}
	}
	return newCode, newLines
}

func asNumber(v value.Value) (float64, bool) {
	n, ok := v.(value.Number)
	return float64(n), ok
}

func asBool(v value.Value) (bool, bool) {
	b, ok := v.(value.Bool)
	return bool(b), ok
}

// foldConstants collapses a LoadConst/LoadConst/<binary op> triple or a
// LoadConst/<unary op> pair into a single LoadConst when both operands are
// literal and the operation cannot fail (division/modulo by a literal zero
// is left unfolded so the VM still raises its usual runtime error).
func foldConstants(chunk *Chunk, code []Instruction, lines []int) ([]Instruction, []int, []int) {
	newCode := make([]Instruction, 0, len(code))
	newLines := make([]int, 0, len(lines))
	oldToNew := make([]int, len(code)+1)

	emit := func(ins Instruction, line int, from, to int) {
		pos := len(newCode)
		newCode = append(newCode, ins)
		newLines = append(newLines, line)
		for i := from; i <= to; i++ {
			oldToNew[i] = pos
		}
	}

	i := 0
	for i < len(code) {
		if i+2 < len(code) && code[i].Op == OpLoadConst && code[i+1].Op == OpLoadConst {
			if folded, ok := foldBinary(chunk, code[i].A, code[i+1].A, code[i+2].Op); ok {
				emit(Instruction{Op: OpLoadConst, A: int32(chunk.AddConstant(folded))}, lines[i+2], i, i+2)
				i += 3
				continue
			}
		}
		if i+1 < len(code) && code[i].Op == OpLoadConst {
			if folded, ok := foldUnary(chunk, code[i].A, code[i+1].Op); ok {
				emit(Instruction{Op: OpLoadConst, A: int32(chunk.AddConstant(folded))}, lines[i+1], i, i+1)
				i += 2
				continue
			}
		}
		emit(code[i], lines[i], i, i)
		i++
	}
	oldToNew[len(code)] = len(newCode)
	return newCode, newLines, oldToNew
}

func foldBinary(chunk *Chunk, aIdx, bIdx int32, op OpCode) (value.Value, bool) {
	a := chunk.Constants[aIdx]
	b := chunk.Constants[bIdx]
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			switch op {
			case OpAdd:
				return value.Number(an + bn), true
			case OpSubtract:
				return value.Number(an - bn), true
			case OpMultiply:
				return value.Number(an * bn), true
			case OpDivide:
				if bn == 0 {
					return nil, false
				}
				return value.Number(an / bn), true
			case OpModulo:
				if bn == 0 {
					return nil, false
				}
				return value.Number(float64(int64(an) % int64(bn))), true
			case OpLess:
				return value.Bool(an < bn), true
			case OpLessEqual:
				return value.Bool(an <= bn), true
			case OpGreater:
				return value.Bool(an > bn), true
			case OpGreaterEqual:
				return value.Bool(an >= bn), true
			}
		}
	}
	switch op {
	case OpEqual:
		return value.Bool(value.Equal(a, b)), true
	case OpNotEqual:
		return value.Bool(!value.Equal(a, b)), true
	}
	return nil, false
}

func foldUnary(chunk *Chunk, idx int32, op OpCode) (value.Value, bool) {
	v := chunk.Constants[idx]
	switch op {
	case OpNegate:
		if n, ok := asNumber(v); ok {
			return value.Number(-n), true
		}
	case OpNot:
		if b, ok := asBool(v); ok {
			return value.Bool(!b), true
		}
	}
	return nil, false
}

// fuseIncDec rewrites the four-instruction "read a local, add/subtract the
// constant 1, write it back to the same local" idiom compileIncDec emits for
// Increase/Decrease statements into a single Increment/Decrement opcode.
func fuseIncDec(chunk *Chunk, code []Instruction, lines []int) ([]Instruction, []int, []int) {
	newCode := make([]Instruction, 0, len(code))
	newLines := make([]int, 0, len(lines))
	oldToNew := make([]int, len(code)+1)

	isOne := func(idx int32) bool {
		n, ok := chunk.Constants[idx].(value.Number)
		return ok && float64(n) == 1
	}

	i := 0
	for i < len(code) {
		if i+3 < len(code) &&
			code[i].Op == OpLoadLocal &&
			code[i+1].Op == OpLoadConst && isOne(code[i+1].A) &&
			(code[i+2].Op == OpAdd || code[i+2].Op == OpSubtract) &&
			code[i+3].Op == OpStoreLocal && code[i+3].A == code[i].A {
			op := OpIncrement
			if code[i+2].Op == OpSubtract {
				op = OpDecrement
			}
			pos := len(newCode)
			newCode = append(newCode, Instruction{Op: op, A: code[i].A})
			newLines = append(newLines, lines[i+3])
			for k := i; k <= i+3; k++ {
				oldToNew[k] = pos
			}
			i += 4
			continue
		}
		pos := len(newCode)
		newCode = append(newCode, code[i])
		newLines = append(newLines, lines[i])
		oldToNew[i] = pos
		i++
	}
	oldToNew[len(code)] = len(newCode)
	return newCode, newLines, oldToNew
}

// removeUnreachable drops any instruction that cannot be reached either by
// falling through from its predecessor or by being some jump's target.
func removeUnreachable(chunk *Chunk, code []Instruction, lines []int) ([]Instruction, []int, []int) {
	targets := make(map[int32]bool)
	for _, ins := range code {
		if isJump(ins.Op) {
			targets[ins.A] = true
		}
	}

	newCode := make([]Instruction, 0, len(code))
	newLines := make([]int, 0, len(lines))
	oldToNew := make([]int, len(code)+1)

	reachable := true
	for i, ins := range code {
		if !reachable {
			if !targets[int32(i)] {
				oldToNew[i] = len(newCode)
				continue
			}
			reachable = true
		}
		oldToNew[i] = len(newCode)
		newCode = append(newCode, ins)
		newLines = append(newLines, lines[i])
		if isUnconditionalTerminator(ins.Op) {
			reachable = false
		}
	}
	oldToNew[len(code)] = len(newCode)
	return newCode, newLines, oldToNew
}

// removeNoopJumps drops an unconditional Jump whose target is the very next
// instruction, a pattern optimized-away branches sometimes leave behind,
// and compacts the line table to match.
func removeNoopJumps(chunk *Chunk, code []Instruction, lines []int) ([]Instruction, []int, []int) {
	newCode := make([]Instruction, 0, len(code))
	newLines := make([]int, 0, len(lines))
	oldToNew := make([]int, len(code)+1)

	for i, ins := range code {
		if ins.Op == OpJump && int(ins.A) == i+1 {
			oldToNew[i] = len(newCode)
			continue
		}
		oldToNew[i] = len(newCode)
		newCode = append(newCode, ins)
		newLines = append(newLines, lines[i])
	}
	oldToNew[len(code)] = len(newCode)
	return newCode, newLines, oldToNew
}
