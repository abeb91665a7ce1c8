package bytecode

import (
	"strings"

	"github.com/AlhaqGH/pohlang/internal/value"
)

// maxCallDepth guards against runaway recursion; the VM's call stack lives
// on the heap (vm.frames), not the Go stack, so without a cap a recursive
// program would exhaust memory rather than fail fast.
const maxCallDepth = 4096

func fnLabel(proto *FunctionProto) string {
	if proto.Name == "" {
		return "anonymous function"
	}
	return proto.Name
}

// makeClosure builds a Closure from proto, capturing each declared upvalue
// either from the calling frame's own locals or from its own upvalue list.
func (vm *VM) makeClosure(f *callFrame, proto *FunctionProto) *Closure {
	ups := make([]*Cell, len(proto.Upvalues))
	for i, def := range proto.Upvalues {
		if def.FromParentLocal {
			ups[i] = f.locals[def.Index]
		} else {
			ups[i] = f.upvalues[def.Index]
		}
	}
	return &Closure{Proto: proto, Upvalues: ups}
}

// execCall checks arity against the declared (not required) parameter
// count, fills defaults for the rest via the callee's own compiled
// prologue, pushes a fresh frame of boxed locals, and lets Return unwind
// it.
func (vm *VM) execCall(argc int) *value.ErrorValue {
	args := make([]value.Value, argc)
	for k := argc - 1; k >= 0; k-- {
		args[k] = vm.pop()
	}
	calleeVal := vm.pop()
	closure, ok := calleeVal.(*Closure)
	if !ok {
		return vm.typeErr("%s is not callable", calleeVal.Type())
	}
	proto := closure.Proto

	if argc > len(proto.ParamNames) {
		return vm.runtimeErr("%s expects at most %d argument(s), got %d", fnLabel(proto), len(proto.ParamNames), argc)
	}
	for idx := argc; idx < len(proto.ParamNames); idx++ {
		if !proto.HasDefault[idx] {
			return vm.runtimeErr("%s is missing required argument %q", fnLabel(proto), proto.ParamNames[idx])
		}
	}

	if len(vm.frames) >= maxCallDepth {
		return vm.runtimeErr("stack overflow: call depth exceeded %d", maxCallDepth)
	}

	locals := make([]*Cell, proto.NumLocals)
	for i := range locals {
		locals[i] = &Cell{Value: value.Null}
	}
	for idx := 0; idx < argc; idx++ {
		locals[idx] = &Cell{Value: args[idx]}
	}

	vm.frames = append(vm.frames, callFrame{
		chunk:    proto.Chunk,
		locals:   locals,
		upvalues: closure.Upvalues,
		argc:     argc,
		name:     fnLabel(proto),
		tryBase:  len(vm.tryHandlers),
	})
	if vm.stats != nil {
		vm.stats.CallCount++
	}
	return nil
}

// execReturn pops the current frame, discards any try handlers it owns
// (a handler whose body never reached its matching OpPopTryHandler because
// control left via Return), and leaves the return value on the caller's
// stack.
func (vm *VM) execReturn() {
	result := vm.pop()
	f := vm.frames[len(vm.frames)-1]
	vm.tryHandlers = vm.tryHandlers[:f.tryBase]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(result)
}

// throw unwinds to the nearest enclosing try handler, restoring the
// operand stack and frame depth it was pushed at and resuming execution
// at its catch-dispatch target with the error value on top of the stack
//. If no handler remains, ev propagates as the program's
// uncaught error.
func (vm *VM) throw(ev *value.ErrorValue) *value.ErrorValue {
	if len(vm.tryHandlers) == 0 {
		return ev
	}
	h := vm.tryHandlers[len(vm.tryHandlers)-1]
	vm.tryHandlers = vm.tryHandlers[:len(vm.tryHandlers)-1]

	vm.frames = vm.frames[:h.frameIndex+1]
	vm.stack = vm.stack[:h.stackLen]
	vm.push(ev)
	vm.frame().ip = int(h.target)
	return nil
}

func (vm *VM) execContains() *value.ErrorValue {
	container, v := vm.pop(), vm.pop()
	switch t := container.(type) {
	case *value.List:
		for _, el := range t.Elements {
			if value.Equal(el, v) {
				vm.push(value.Bool(true))
				return nil
			}
		}
		vm.push(value.Bool(false))
	case value.String:
		s, ok := v.(value.String)
		if !ok {
			return vm.typeErr("contains ... in requires a string, got %s", v.Type())
		}
		vm.push(value.Bool(strings.Contains(string(t), string(s))))
	case *value.Dict:
		key, ok := v.(value.String)
		if !ok {
			return vm.typeErr("contains ... in requires a string key, got %s", v.Type())
		}
		_, found := t.Get(string(key))
		vm.push(value.Bool(found))
	default:
		return vm.typeErr("contains ... in requires a list, a string, or a dictionary")
	}
	return nil
}

func (vm *VM) execLength() *value.ErrorValue {
	v := vm.pop()
	switch t := v.(type) {
	case *value.List:
		vm.push(value.Number(len(t.Elements)))
	case value.String:
		vm.push(value.Number(len([]rune(string(t)))))
	case *value.Dict:
		vm.push(value.Number(t.Len()))
	default:
		return vm.typeErr("count of requires a list, a string, or a dictionary")
	}
	return nil
}
