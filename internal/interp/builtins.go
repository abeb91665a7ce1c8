package interp

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

// evalBuiltin implements the closed set of phrasal built-in expressions.
// Every arity/kind violation raises TypeError.
func (i *Interpreter) evalBuiltin(e *ast.BuiltinExpression) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for idx, a := range e.Args {
		v, err := i.evalExpression(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch e.Builtin {
	case ast.BuiltinTotalOf:
		return i.builtinTotalOf(e, args[0])
	case ast.BuiltinSmallestIn:
		return i.builtinExtreme(e, args[0], true)
	case ast.BuiltinLargestIn:
		return i.builtinExtreme(e, args[0], false)
	case ast.BuiltinAbsoluteValueOf:
		n, err := i.requireNumber(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.Number(math.Abs(float64(n))), nil
	case ast.BuiltinRound:
		n, err := i.requireNumber(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.Number(math.Round(float64(n))), nil
	case ast.BuiltinRoundDown:
		n, err := i.requireNumber(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.Number(math.Floor(float64(n))), nil
	case ast.BuiltinRoundUp:
		n, err := i.requireNumber(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.Number(math.Ceil(float64(n))), nil
	case ast.BuiltinMakeUppercase:
		s, err := i.requireString(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.String(upperCaser.String(string(s))), nil
	case ast.BuiltinMakeLowercase:
		s, err := i.requireString(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.String(lowerCaser.String(string(s))), nil
	case ast.BuiltinTrimSpacesFrom:
		s, err := i.requireString(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.String(strings.TrimSpace(string(s))), nil
	case ast.BuiltinFirstIn:
		return i.builtinEndpoint(e, args[0], true)
	case ast.BuiltinLastIn:
		return i.builtinEndpoint(e, args[0], false)
	case ast.BuiltinReverseOf:
		return i.builtinReverse(e, args[0])
	case ast.BuiltinCountOf:
		return i.builtinCount(e, args[0])
	case ast.BuiltinJoinWith:
		return i.builtinJoin(e, args[0], args[1])
	case ast.BuiltinSplitBy:
		return i.builtinSplit(e, args[0], args[1])
	case ast.BuiltinContainsIn:
		return i.builtinContains(e, args[0], args[1])
	case ast.BuiltinRemoveFrom:
		return i.builtinRemove(e, args[0], args[1])
	case ast.BuiltinAppendTo:
		return i.builtinAppend(e, args[0], args[1])
	case ast.BuiltinInsertAtIn:
		return i.builtinInsert(e, args[0], args[1], args[2])
	case ast.BuiltinErrorOfTypeWithMessage:
		return i.builtinErrorOfType(e, args[0], args[1])
	case ast.BuiltinErrorMessageOf:
		ev, err := i.requireError(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.String(ev.Message), nil
	case ast.BuiltinErrorTypeOf:
		ev, err := i.requireError(e, args[0])
		if err != nil {
			return nil, err
		}
		return value.String(ev.KindName()), nil
	default:
		return nil, i.runtimeErr(e, "unimplemented built-in %q", ast.BuiltinNames[e.Builtin])
	}
}

func (i *Interpreter) requireNumber(node ast.Node, v value.Value) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, i.typeErr(node, "expected a number, got %s", v.Type())
	}
	return n, nil
}

func (i *Interpreter) requireString(node ast.Node, v value.Value) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", i.typeErr(node, "expected a string, got %s", v.Type())
	}
	return s, nil
}

func (i *Interpreter) requireList(node ast.Node, v value.Value) (*value.List, error) {
	l, ok := v.(*value.List)
	if !ok {
		return nil, i.typeErr(node, "expected a list, got %s", v.Type())
	}
	return l, nil
}

func (i *Interpreter) requireError(node ast.Node, v value.Value) (*value.ErrorValue, error) {
	ev, ok := v.(*value.ErrorValue)
	if !ok {
		return nil, i.typeErr(node, "expected an error value, got %s", v.Type())
	}
	return ev, nil
}

// builtinTotalOf: a number is its own total; a list of numbers sums
// (empty list -> 0).
func (i *Interpreter) builtinTotalOf(node ast.Node, v value.Value) (value.Value, error) {
	if n, ok := v.(value.Number); ok {
		return n, nil
	}
	l, err := i.requireList(node, v)
	if err != nil {
		return nil, err
	}
	var sum value.Number
	for _, el := range l.Elements {
		n, ok := el.(value.Number)
		if !ok {
			return nil, i.typeErr(node, "total of requires a list of numbers")
		}
		sum += n
	}
	return sum, nil
}

// builtinExtreme implements smallest/largest in; a lone number is its
// own extreme, a non-empty list of numbers is scanned, an empty list
// raises RuntimeError.
func (i *Interpreter) builtinExtreme(node ast.Node, v value.Value, smallest bool) (value.Value, error) {
	if n, ok := v.(value.Number); ok {
		return n, nil
	}
	l, err := i.requireList(node, v)
	if err != nil {
		return nil, err
	}
	if len(l.Elements) == 0 {
		return nil, i.runtimeErr(node, "cannot find %s of an empty list", extremeName(smallest))
	}
	best, ok := l.Elements[0].(value.Number)
	if !ok {
		return nil, i.typeErr(node, "%s in requires a list of numbers", extremeName(smallest))
	}
	for _, el := range l.Elements[1:] {
		n, ok := el.(value.Number)
		if !ok {
			return nil, i.typeErr(node, "%s in requires a list of numbers", extremeName(smallest))
		}
		if (smallest && n < best) || (!smallest && n > best) {
			best = n
		}
	}
	return best, nil
}

func extremeName(smallest bool) string {
	if smallest {
		return "smallest"
	}
	return "largest"
}

func (i *Interpreter) builtinEndpoint(node ast.Node, v value.Value, first bool) (value.Value, error) {
	switch t := v.(type) {
	case *value.List:
		if len(t.Elements) == 0 {
			return nil, i.runtimeErr(node, "cannot take %s of an empty list", endpointName(first))
		}
		if first {
			return t.Elements[0], nil
		}
		return t.Elements[len(t.Elements)-1], nil
	case value.String:
		runes := []rune(string(t))
		if len(runes) == 0 {
			return nil, i.runtimeErr(node, "cannot take %s of an empty string", endpointName(first))
		}
		if first {
			return value.String(runes[0]), nil
		}
		return value.String(runes[len(runes)-1]), nil
	default:
		return nil, i.typeErr(node, "%s in requires a list or a string", endpointName(first))
	}
}

func endpointName(first bool) string {
	if first {
		return "the first element"
	}
	return "the last element"
}

func (i *Interpreter) builtinReverse(node ast.Node, v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.List:
		out := make([]value.Value, len(t.Elements))
		for idx, el := range t.Elements {
			out[len(out)-1-idx] = el
		}
		return value.NewList(out...), nil
	case value.String:
		runes := []rune(string(t))
		for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
			runes[a], runes[b] = runes[b], runes[a]
		}
		return value.String(runes), nil
	default:
		return nil, i.typeErr(node, "reverse of requires a list or a string")
	}
}

func (i *Interpreter) builtinCount(node ast.Node, v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.List:
		return value.Number(len(t.Elements)), nil
	case value.String:
		return value.Number(len([]rune(string(t)))), nil
	case *value.Dict:
		return value.Number(t.Len()), nil
	default:
		return nil, i.typeErr(node, "count of requires a list, a string, or a dictionary")
	}
}

func (i *Interpreter) builtinJoin(node ast.Node, lv, sv value.Value) (value.Value, error) {
	l, err := i.requireList(node, lv)
	if err != nil {
		return nil, err
	}
	sep, err := i.requireString(node, sv)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(l.Elements))
	for idx, el := range l.Elements {
		parts[idx] = el.String()
	}
	return value.String(strings.Join(parts, string(sep))), nil
}

func (i *Interpreter) builtinSplit(node ast.Node, sv, tv value.Value) (value.Value, error) {
	s, err := i.requireString(node, sv)
	if err != nil {
		return nil, err
	}
	sep, err := i.requireString(node, tv)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(s), string(sep))
	out := make([]value.Value, len(parts))
	for idx, p := range parts {
		out[idx] = value.String(p)
	}
	return value.NewList(out...), nil
}

func (i *Interpreter) builtinContains(node ast.Node, v, x value.Value) (value.Value, error) {
	switch t := x.(type) {
	case *value.List:
		for _, el := range t.Elements {
			if value.Equal(el, v) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.String:
		s, err := i.requireString(node, v)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.Contains(string(t), string(s))), nil
	case *value.Dict:
		key, err := i.requireString(node, v)
		if err != nil {
			return nil, err
		}
		_, ok := t.Get(string(key))
		return value.Bool(ok), nil
	default:
		return nil, i.typeErr(node, "contains ... in requires a list, a string, or a dictionary")
	}
}

func (i *Interpreter) builtinRemove(node ast.Node, v, lv value.Value) (value.Value, error) {
	l, err := i.requireList(node, lv)
	if err != nil {
		return nil, err
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
	return value.NewList(out...), nil
}

func (i *Interpreter) builtinAppend(node ast.Node, v, lv value.Value) (value.Value, error) {
	l, err := i.requireList(node, lv)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(l.Elements), len(l.Elements)+1)
	copy(out, l.Elements)
	out = append(out, v)
	return value.NewList(out...), nil
}

func (i *Interpreter) builtinInsert(node ast.Node, v, iv, lv value.Value) (value.Value, error) {
	l, err := i.requireList(node, lv)
	if err != nil {
		return nil, err
	}
	n, err := i.requireNumber(node, iv)
	if err != nil {
		return nil, err
	}
	idx := int(n)
	if idx < 0 {
		idx += len(l.Elements) + 1
	}
	if idx < 0 || idx > len(l.Elements) {
		return nil, i.runtimeErr(node, "insert index %d out of range for a list of length %d", int(n), len(l.Elements))
	}
	out := make([]value.Value, 0, len(l.Elements)+1)
	out = append(out, l.Elements[:idx]...)
	out = append(out, v)
	out = append(out, l.Elements[idx:]...)
	return value.NewList(out...), nil
}

// builtinKindByName maps a spelled-out kind to its ErrorKind when it
// names one of the built-in kinds (case-insensitive); anything else
// becomes a Custom(typeName) kind.
func builtinKindByName(name string) (value.ErrorKind, bool) {
	for _, k := range []value.ErrorKind{
		value.RuntimeError, value.TypeError, value.MathError, value.FileError,
		value.JSONError, value.NetworkError, value.ValidationError,
	} {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

func (i *Interpreter) builtinErrorOfType(node ast.Node, tv, mv value.Value) (value.Value, error) {
	typeName, err := i.requireString(node, tv)
	if err != nil {
		return nil, err
	}
	msg, err := i.requireString(node, mv)
	if err != nil {
		return nil, err
	}
	if kind, ok := builtinKindByName(string(typeName)); ok {
		return value.NewError(kind, string(msg)), nil
	}
	return value.NewCustomError(string(typeName), string(msg)), nil
}

// NumberToDisplay is used by collaborators (e.g. pkg/jsonbridge) that
// need the same "integer-valued floats print without .0" rule the
// value package applies to Write output.
func NumberToDisplay(n value.Number) string { return n.String() }
