package bytecode

import (
	"math"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// Run executes chunk as the program's top-level frame and returns the
// final fall-off-the-end value (always Null for a well-formed program)
// or the uncaught error that propagated past every frame.
func (vm *VM) Run(chunk *Chunk) (value.Value, *value.ErrorValue) {
	vm.pushRootFrame(chunk)
	return vm.run()
}

func (vm *VM) pushRootFrame(chunk *Chunk) {
	locals := make([]*Cell, len(chunk.Debug.VariableNames))
	for i := range locals {
		locals[i] = &Cell{Value: value.Null}
	}
	vm.frames = append(vm.frames, callFrame{chunk: chunk, locals: locals, name: "<program>"})
}

// run is the fetch-execute loop shared by the top-level program and by
// Import's nested module execution (vm_import.go).
func (vm *VM) run() (value.Value, *value.ErrorValue) {
	for len(vm.frames) > 0 {
		f := vm.frame()
		if f.ip >= len(f.chunk.Code) {
			// Falling off the end of a chunk with no explicit Return
			// (the top-level program) returns Null.
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return value.Null, nil
			}
			vm.push(value.Null)
			continue
		}

		ins := f.chunk.Code[f.ip]
		f.ip++
		if vm.stats != nil {
			vm.stats.InstructionsExecuted++
		}

		switch ins.Op {
		case OpLoadConst:
			vm.push(f.chunk.Constants[ins.A])
		case OpPop:
			vm.pop()
		case OpPopN:
			vm.stack = vm.stack[:len(vm.stack)-int(ins.A)]
		case OpDuplicate:
			vm.push(vm.peek(0))
		case OpLoadLocal:
			vm.push(f.locals[ins.A].Value)
		case OpStoreLocal:
			f.locals[ins.A].Value = vm.peek(0)
			vm.pop()
		case OpLoadUpvalue:
			vm.push(f.upvalues[ins.A].Value)
		case OpStoreUpvalue:
			f.upvalues[ins.A].Value = vm.peek(0)
			vm.pop()
		case OpLoadGlobal:
			name := string(f.chunk.Constants[ins.A].(value.String))
			cell, ok := vm.loadGlobal(name)
			if !ok {
				if err := vm.throw(vm.runtimeErr("undefined name %q", name)); err != nil {
					return value.Null, err
				}
				continue
			}
			vm.push(cell.Value)
		case OpStoreGlobal:
			name := string(f.chunk.Constants[ins.A].(value.String))
			vm.storeGlobal(name, vm.peek(0))
			vm.pop()

		case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
			if err := vm.execArith(ins.Op); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}
		case OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				if terr := vm.throw(vm.typeErr("- requires a number, got %s", vm.peek(0).Type())); terr != nil {
					return value.Null, terr
				}
				continue
			}
			vm.pop()
			vm.push(-n)
		case OpIncrement:
			f.locals[ins.A].Value = f.locals[ins.A].Value.(value.Number) + 1
		case OpDecrement:
			f.locals[ins.A].Value = f.locals[ins.A].Value.(value.Number) - 1

		case OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(a, b)))
		case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
			if err := vm.execCompare(ins.Op); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}
		case OpNot:
			vm.push(value.Bool(!value.Truthy(vm.pop())))

		case OpJump:
			f.ip = int(ins.A)
		case OpJumpIfFalse:
			if !value.Truthy(vm.pop()) {
				f.ip = int(ins.A)
			}
		case OpJumpIfTrue:
			if value.Truthy(vm.pop()) {
				f.ip = int(ins.A)
			}
		case OpLoop:
			f.ip = int(ins.A)

		case OpCall:
			if err := vm.execCall(int(ins.A)); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}
		case OpLoadArgc:
			vm.push(value.Number(f.argc))
		case OpReturn:
			vm.execReturn()

		case OpMakeList:
			n := int(ins.A)
			elems := make([]value.Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(value.NewList(elems...))
		case OpMakeDict:
			n := int(ins.A)
			pairs := vm.stack[len(vm.stack)-2*n:]
			d := value.NewDict()
			for i := 0; i < n; i++ {
				key, ok := pairs[2*i].(value.String)
				if !ok {
					if terr := vm.throw(vm.typeErr("dictionary keys must be strings, got %s", pairs[2*i].Type())); terr != nil {
						return value.Null, terr
					}
					continue
				}
				d.Set(string(key), pairs[2*i+1])
			}
			vm.stack = vm.stack[:len(vm.stack)-2*n]
			vm.push(d)
		case OpIndexGet:
			if err := vm.execIndexGet(); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}
		case OpContains:
			if err := vm.execContains(); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}
		case OpLength:
			if err := vm.execLength(); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}

		case OpMakeFunction:
			proto := f.chunk.Constants[ins.A].(*FunctionProto)
			vm.push(vm.makeClosure(f, proto))
		case OpBuiltin:
			if err := vm.execBuiltin(ast.BuiltinKind(ins.A)); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}

		case OpPushTryHandler:
			vm.tryHandlers = append(vm.tryHandlers, tryHandler{
				target:     ins.A,
				frameIndex: len(vm.frames) - 1,
				stackLen:   len(vm.stack),
			})
		case OpPopTryHandler:
			vm.tryHandlers = vm.tryHandlers[:len(vm.tryHandlers)-1]
		case OpErrorKindMatches:
			ev := vm.peek(0).(*value.ErrorValue)
			typeName := string(f.chunk.Constants[ins.A].(value.String))
			vm.push(value.Bool(ev.MatchesType(typeName)))
		case OpThrow:
			thrown := vm.pop()
			ev, ok := thrown.(*value.ErrorValue)
			if !ok {
				ev = vm.runtimeErr("thrown value must be an error, got %s", thrown.Type())
			}
			if terr := vm.throw(ev); terr != nil {
				return value.Null, terr
			}

		case OpImport:
			path := string(f.chunk.Constants[ins.A].(value.String))
			if err := vm.doImport(path); err != nil {
				if terr := vm.throw(err); terr != nil {
					return value.Null, terr
				}
			}

		case OpPrint:
			vm.write(vm.pop())
		case OpInput:
			line, err := vm.readLine()
			if err != nil {
				vm.push(value.String(""))
			} else {
				vm.push(value.String(line))
			}

		case OpHalt:
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				var result value.Value = value.Null
				if len(vm.stack) > 0 {
					result = vm.pop()
				}
				return result, nil
			}

		default:
			if terr := vm.throw(vm.runtimeErr("unknown opcode %s", ins.Op)); terr != nil {
				return value.Null, terr
			}
		}
	}
	return value.Null, nil
}

// execArith mirrors internal/interp.evalArithmetic exactly, including its
// numbers-only rule: the arithmetic operators never implicitly
// concatenate strings.
func (vm *VM) execArith(op OpCode) *value.ErrorValue {
	b, a := vm.pop(), vm.pop()
	an, aok := a.(value.Number)
	bn, bok := b.(value.Number)
	if !aok || !bok {
		return vm.typeErr("expected numbers, got %s and %s", a.Type(), b.Type())
	}
	switch op {
	case OpAdd:
		vm.push(an + bn)
	case OpSubtract:
		vm.push(an - bn)
	case OpMultiply:
		vm.push(an * bn)
	case OpDivide:
		if bn == 0 {
			return vm.mathErr("Division by zero")
		}
		vm.push(an / bn)
	case OpModulo:
		if bn == 0 {
			return vm.mathErr("Division by zero")
		}
		vm.push(value.Number(math.Mod(float64(an), float64(bn))))
	}
	return nil
}

func (vm *VM) execCompare(op OpCode) *value.ErrorValue {
	b, a := vm.pop(), vm.pop()
	less, ok := value.Less(a, b)
	if !ok {
		return vm.typeErr("cannot compare %s and %s", a.Type(), b.Type())
	}
	equal := value.Equal(a, b)
	switch op {
	case OpLess:
		vm.push(value.Bool(less))
	case OpLessEqual:
		vm.push(value.Bool(less || equal))
	case OpGreater:
		vm.push(value.Bool(!less && !equal))
	case OpGreaterEqual:
		vm.push(value.Bool(!less))
	}
	return nil
}

func (vm *VM) execIndexGet() *value.ErrorValue {
	idx, left := vm.pop(), vm.pop()
	switch t := left.(type) {
	case *value.List:
		n, ok := idx.(value.Number)
		if !ok {
			return vm.typeErr("list index must be a number, got %s", idx.Type())
		}
		i := int(n)
		if i < 0 {
			i += len(t.Elements)
		}
		if i < 0 || i >= len(t.Elements) {
			return vm.runtimeErr("list index %d out of range for a list of length %d", int(n), len(t.Elements))
		}
		vm.push(t.Elements[i])
	case value.String:
		n, ok := idx.(value.Number)
		if !ok {
			return vm.typeErr("string index must be a number, got %s", idx.Type())
		}
		runes := []rune(string(t))
		i := int(n)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return vm.runtimeErr("string index %d out of range for a string of length %d", int(n), len(runes))
		}
		vm.push(value.String(runes[i]))
	case *value.Dict:
		key, ok := idx.(value.String)
		if !ok {
			return vm.typeErr("dictionary key must be a string, got %s", idx.Type())
		}
		v, ok := t.Get(string(key))
		if !ok {
			return vm.runtimeErr("dictionary has no key %q", string(key))
		}
		vm.push(v)
	default:
		return vm.typeErr("cannot index into %s", left.Type())
	}
	return nil
}
