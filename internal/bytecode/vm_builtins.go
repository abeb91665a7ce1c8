package bytecode

import (
	"math"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

// execBuiltin implements every phrasal built-in expression not already
// compiled to a dedicated opcode. Arguments were pushed left
// to right by compileBuiltin and are popped in reverse here, exactly
// reproducing internal/interp.evalBuiltin's semantics so both back-ends
// agree on every observable.
func (vm *VM) execBuiltin(kind ast.BuiltinKind) *value.ErrorValue {
	switch kind {
	case builtinRepeatCoerce:
		return vm.execRepeatCoerce()

	case ast.BuiltinAbsoluteValueOf:
		n, err := vm.popNumber()
		if err != nil {
			return err
		}
		vm.push(value.Number(math.Abs(float64(n))))
	case ast.BuiltinRound:
		n, err := vm.popNumber()
		if err != nil {
			return err
		}
		vm.push(value.Number(math.Round(float64(n))))
	case ast.BuiltinRoundDown:
		n, err := vm.popNumber()
		if err != nil {
			return err
		}
		vm.push(value.Number(math.Floor(float64(n))))
	case ast.BuiltinRoundUp:
		n, err := vm.popNumber()
		if err != nil {
			return err
		}
		vm.push(value.Number(math.Ceil(float64(n))))
	case ast.BuiltinMakeUppercase:
		s, err := vm.popString()
		if err != nil {
			return err
		}
		vm.push(value.String(upperCaser.String(string(s))))
	case ast.BuiltinMakeLowercase:
		s, err := vm.popString()
		if err != nil {
			return err
		}
		vm.push(value.String(lowerCaser.String(string(s))))
	case ast.BuiltinTrimSpacesFrom:
		s, err := vm.popString()
		if err != nil {
			return err
		}
		vm.push(value.String(strings.TrimSpace(string(s))))

	case ast.BuiltinTotalOf:
		return vm.execTotalOf()
	case ast.BuiltinSmallestIn:
		return vm.execExtreme(true)
	case ast.BuiltinLargestIn:
		return vm.execExtreme(false)
	case ast.BuiltinFirstIn:
		return vm.execEndpoint(true)
	case ast.BuiltinLastIn:
		return vm.execEndpoint(false)
	case ast.BuiltinReverseOf:
		return vm.execReverse()
	case ast.BuiltinJoinWith:
		return vm.execJoin()
	case ast.BuiltinSplitBy:
		return vm.execSplit()
	case ast.BuiltinRemoveFrom:
		return vm.execRemove()
	case ast.BuiltinAppendTo:
		return vm.execAppend()
	case ast.BuiltinInsertAtIn:
		return vm.execInsert()
	case ast.BuiltinErrorOfTypeWithMessage:
		return vm.execErrorOfType()
	case ast.BuiltinErrorMessageOf:
		ev, err := vm.popError()
		if err != nil {
			return err
		}
		vm.push(value.String(ev.Message))
	case ast.BuiltinErrorTypeOf:
		ev, err := vm.popError()
		if err != nil {
			return err
		}
		vm.push(value.String(ev.KindName()))

	default:
		return vm.runtimeErr("unimplemented built-in %q", ast.BuiltinNames[kind])
	}
	return nil
}

func (vm *VM) popNumber() (value.Number, *value.ErrorValue) {
	n, ok := vm.pop().(value.Number)
	if !ok {
		return 0, vm.typeErr("expected a number")
	}
	return n, nil
}

func (vm *VM) popString() (value.String, *value.ErrorValue) {
	s, ok := vm.pop().(value.String)
	if !ok {
		return "", vm.typeErr("expected a string")
	}
	return s, nil
}

func (vm *VM) popList() (*value.List, *value.ErrorValue) {
	l, ok := vm.pop().(*value.List)
	if !ok {
		return nil, vm.typeErr("expected a list")
	}
	return l, nil
}

func (vm *VM) popError() (*value.ErrorValue, *value.ErrorValue) {
	ev, ok := vm.pop().(*value.ErrorValue)
	if !ok {
		return nil, vm.typeErr("expected an error value")
	}
	return ev, nil
}

// execRepeatCoerce: `Repeat N times` truncates N toward zero, then
// rejects a negative result.
func (vm *VM) execRepeatCoerce() *value.ErrorValue {
	n, err := vm.popNumber()
	if err != nil {
		return err
	}
	truncated := math.Trunc(float64(n))
	if truncated < 0 {
		return vm.runtimeErr("Repeat count must not be negative, got %g", truncated)
	}
	vm.push(value.Number(truncated))
	return nil
}

func (vm *VM) execTotalOf() *value.ErrorValue {
	v := vm.pop()
	if n, ok := v.(value.Number); ok {
		vm.push(n)
		return nil
	}
	l, ok := v.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", v.Type())
	}
	var sum value.Number
	for _, el := range l.Elements {
		n, ok := el.(value.Number)
		if !ok {
			return vm.typeErr("total of requires a list of numbers")
		}
		sum += n
	}
	vm.push(sum)
	return nil
}

func (vm *VM) execExtreme(smallest bool) *value.ErrorValue {
	v := vm.pop()
	if n, ok := v.(value.Number); ok {
		vm.push(n)
		return nil
	}
	l, ok := v.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", v.Type())
	}
	if len(l.Elements) == 0 {
		return vm.runtimeErr("cannot find %s of an empty list", extremeName(smallest))
	}
	best, ok := l.Elements[0].(value.Number)
	if !ok {
		return vm.typeErr("%s in requires a list of numbers", extremeName(smallest))
	}
	for _, el := range l.Elements[1:] {
		n, ok := el.(value.Number)
		if !ok {
			return vm.typeErr("%s in requires a list of numbers", extremeName(smallest))
		}
		if (smallest && n < best) || (!smallest && n > best) {
			best = n
		}
	}
	vm.push(best)
	return nil
}

func extremeName(smallest bool) string {
	if smallest {
		return "smallest"
	}
	return "largest"
}

func (vm *VM) execEndpoint(first bool) *value.ErrorValue {
	v := vm.pop()
	switch t := v.(type) {
	case *value.List:
		if len(t.Elements) == 0 {
			return vm.runtimeErr("cannot take %s of an empty list", endpointName(first))
		}
		if first {
			vm.push(t.Elements[0])
		} else {
			vm.push(t.Elements[len(t.Elements)-1])
		}
	case value.String:
		runes := []rune(string(t))
		if len(runes) == 0 {
			return vm.runtimeErr("cannot take %s of an empty string", endpointName(first))
		}
		if first {
			vm.push(value.String(runes[0]))
		} else {
			vm.push(value.String(runes[len(runes)-1]))
		}
	default:
		return vm.typeErr("%s in requires a list or a string", endpointName(first))
	}
	return nil
}

func endpointName(first bool) string {
	if first {
		return "the first element"
	}
	return "the last element"
}

func (vm *VM) execReverse() *value.ErrorValue {
	v := vm.pop()
	switch t := v.(type) {
	case *value.List:
		out := make([]value.Value, len(t.Elements))
		for idx, el := range t.Elements {
			out[len(out)-1-idx] = el
		}
		vm.push(value.NewList(out...))
	case value.String:
		runes := []rune(string(t))
		for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
			runes[a], runes[b] = runes[b], runes[a]
		}
		vm.push(value.String(runes))
	default:
		return vm.typeErr("reverse of requires a list or a string")
	}
	return nil
}

// execJoin: args pushed as [list, separator]; pop in reverse.
func (vm *VM) execJoin() *value.ErrorValue {
	sv := vm.pop()
	lv := vm.pop()
	l, ok := lv.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", lv.Type())
	}
	sep, ok := sv.(value.String)
	if !ok {
		return vm.typeErr("expected a string separator, got %s", sv.Type())
	}
	parts := make([]string, len(l.Elements))
	for idx, el := range l.Elements {
		parts[idx] = el.String()
	}
	vm.push(value.String(strings.Join(parts, string(sep))))
	return nil
}

// execSplit: args pushed as [string, separator]; pop in reverse.
func (vm *VM) execSplit() *value.ErrorValue {
	tv := vm.pop()
	sv := vm.pop()
	s, ok := sv.(value.String)
	if !ok {
		return vm.typeErr("expected a string, got %s", sv.Type())
	}
	sep, ok := tv.(value.String)
	if !ok {
		return vm.typeErr("expected a string separator, got %s", tv.Type())
	}
	parts := strings.Split(string(s), string(sep))
	out := make([]value.Value, len(parts))
	for idx, p := range parts {
		out[idx] = value.String(p)
	}
	vm.push(value.NewList(out...))
	return nil
}

// execRemove: args pushed as [value, list]; pop in reverse.
func (vm *VM) execRemove() *value.ErrorValue {
	lv := vm.pop()
	v := vm.pop()
	l, ok := lv.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", lv.Type())
	}
	out := make([]value.Value, 0, len(l.Elements))
	removed := false
	for _, el := range l.Elements {
		if !removed && value.Equal(el, v) {
			removed = true
			continue
		}
		out = append(out, el)
	}
	vm.push(value.NewList(out...))
	return nil
}

// execAppend: args pushed as [value, list]; pop in reverse.
func (vm *VM) execAppend() *value.ErrorValue {
	lv := vm.pop()
	v := vm.pop()
	l, ok := lv.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", lv.Type())
	}
	out := make([]value.Value, len(l.Elements), len(l.Elements)+1)
	copy(out, l.Elements)
	out = append(out, v)
	vm.push(value.NewList(out...))
	return nil
}

// execInsert: args pushed as [value, index, list]; pop in reverse.
func (vm *VM) execInsert() *value.ErrorValue {
	lv := vm.pop()
	iv := vm.pop()
	v := vm.pop()
	l, ok := lv.(*value.List)
	if !ok {
		return vm.typeErr("expected a list, got %s", lv.Type())
	}
	n, ok := iv.(value.Number)
	if !ok {
		return vm.typeErr("expected a number index, got %s", iv.Type())
	}
	idx := int(n)
	if idx < 0 {
		idx += len(l.Elements) + 1
	}
	if idx < 0 || idx > len(l.Elements) {
		return vm.runtimeErr("insert index %d out of range for a list of length %d", int(n), len(l.Elements))
	}
	out := make([]value.Value, 0, len(l.Elements)+1)
	out = append(out, l.Elements[:idx]...)
	out = append(out, v)
	out = append(out, l.Elements[idx:]...)
	vm.push(value.NewList(out...))
	return nil
}

// execErrorOfType: args pushed as [type, message]; pop in reverse.
func (vm *VM) execErrorOfType() *value.ErrorValue {
	mv := vm.pop()
	tv := vm.pop()
	typeName, ok := tv.(value.String)
	if !ok {
		return vm.typeErr("expected a string type name, got %s", tv.Type())
	}
	msg, ok := mv.(value.String)
	if !ok {
		return vm.typeErr("expected a string message, got %s", mv.Type())
	}
	if kind, ok := builtinKindByName(string(typeName)); ok {
		vm.push(value.NewError(kind, string(msg)))
		return nil
	}
	vm.push(value.NewCustomError(string(typeName), string(msg)))
	return nil
}
