package interp

import (
	"math"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

func (i *Interpreter) evalExpression(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return value.Number(e.Value), nil
	case *ast.StringLiteral:
		return value.String(e.Value), nil
	case *ast.BooleanLiteral:
		return value.Bool(e.Value), nil
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.Identifier:
		v, ok := i.env.Get(e.Name)
		if !ok {
			return nil, i.runtimeErr(e, "undefined variable %q", e.Name)
		}
		return v, nil
	case *ast.ListLiteral:
		return i.evalListLiteral(e)
	case *ast.DictLiteral:
		return i.evalDictLiteral(e)
	case *ast.IndexExpression:
		return i.evalIndex(e)
	case *ast.UnaryExpression:
		return i.evalUnary(e)
	case *ast.BinaryExpression:
		return i.evalBinary(e)
	case *ast.CallExpression:
		return i.evalCall(e)
	case *ast.BuiltinExpression:
		return i.evalBuiltin(e)
	default:
		return nil, i.runtimeErr(expr, "cannot evaluate expression of type %T", expr)
	}
}

func (i *Interpreter) evalListLiteral(e *ast.ListLiteral) (value.Value, error) {
	elems := make([]value.Value, len(e.Elements))
	for idx, el := range e.Elements {
		v, err := i.evalExpression(el)
		if err != nil {
			return nil, err
		}
		elems[idx] = v
	}
	return value.NewList(elems...), nil
}

func (i *Interpreter) evalDictLiteral(e *ast.DictLiteral) (value.Value, error) {
	d := value.NewDict()
	for idx, keyExpr := range e.Keys {
		k, err := i.evalExpression(keyExpr)
		if err != nil {
			return nil, err
		}
		ks, ok := k.(value.String)
		if !ok {
			return nil, i.typeErr(keyExpr, "dictionary keys must be strings")
		}
		v, err := i.evalExpression(e.Values[idx])
		if err != nil {
			return nil, err
		}
		d.Set(string(ks), v)
	}
	return d, nil
}

func (i *Interpreter) evalIndex(e *ast.IndexExpression) (value.Value, error) {
	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	idx, err := i.evalExpression(e.Index)
	if err != nil {
		return nil, err
	}

	switch container := left.(type) {
	case *value.List:
		n, ok := idx.(value.Number)
		if !ok {
			return nil, i.typeErr(e, "list index must be a number")
		}
		pos, err := resolveIndex(n, len(container.Elements))
		if err != nil {
			return nil, i.runtimeErr(e, "%s", err)
		}
		return container.Elements[pos], nil
	case value.String:
		n, ok := idx.(value.Number)
		if !ok {
			return nil, i.typeErr(e, "string index must be a number")
		}
		runes := []rune(string(container))
		pos, err := resolveIndex(n, len(runes))
		if err != nil {
			return nil, i.runtimeErr(e, "%s", err)
		}
		return value.String(runes[pos]), nil
	case *value.Dict:
		k, ok := idx.(value.String)
		if !ok {
			return nil, i.typeErr(e, "dictionary key must be a string")
		}
		v, ok := container.Get(string(k))
		if !ok {
			return nil, i.runtimeErr(e, "key %q not found in dictionary", string(k))
		}
		return v, nil
	default:
		return nil, i.typeErr(e, "%s is not indexable", left.Type())
	}
}

// resolveIndex applies negative-index-from-end wrapping and bounds
// checking.
func resolveIndex(n value.Number, length int) (int, error) {
	pos := int(n)
	if pos < 0 {
		pos += length
	}
	if pos < 0 || pos >= length {
		return 0, rangeError{}
	}
	return pos, nil
}

type rangeError struct{}

func (rangeError) Error() string { return "index out of range" }

func (i *Interpreter) evalUnary(e *ast.UnaryExpression) (value.Value, error) {
	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "Not":
		return value.Bool(!value.Truthy(right)), nil
	case "Negate":
		n, ok := right.(value.Number)
		if !ok {
			return nil, i.typeErr(e, "cannot negate a %s", right.Type())
		}
		return -n, nil
	default:
		return nil, i.runtimeErr(e, "unknown unary operator %q", e.Operator)
	}
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpression) (value.Value, error) {
	// And/Or short-circuit and must not evaluate Right unconditionally.
	if e.Operator == "And" || e.Operator == "Or" {
		left, err := i.evalExpression(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator == "And" && !value.Truthy(left) {
			return value.Bool(false), nil
		}
		if e.Operator == "Or" && value.Truthy(left) {
			return value.Bool(true), nil
		}
		right, err := i.evalExpression(e.Right)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(right)), nil
	}

	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "Plus", "Minus", "Times", "DividedBy", "Modulo":
		return i.evalArithmetic(e, left, right)
	case "GreaterThan", "LessThan", "GreaterThanOrEqual", "LessThanOrEqual":
		return i.evalOrdering(e, left, right)
	case "Equal":
		return value.Bool(value.Equal(left, right)), nil
	case "NotEqual":
		return value.Bool(!value.Equal(left, right)), nil
	default:
		return nil, i.runtimeErr(e, "unknown binary operator %q", e.Operator)
	}
}

func (i *Interpreter) evalArithmetic(e *ast.BinaryExpression, left, right value.Value) (value.Value, error) {
	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if !lok || !rok {
		return nil, i.typeErr(e, "%s requires numbers, got %s and %s", e.Operator, left.Type(), right.Type())
	}
	switch e.Operator {
	case "Plus":
		return ln + rn, nil
	case "Minus":
		return ln - rn, nil
	case "Times":
		return ln * rn, nil
	case "DividedBy":
		if rn == 0 {
			return nil, i.mathErr(e, "Division by zero")
		}
		return ln / rn, nil
	case "Modulo":
		if rn == 0 {
			return nil, i.mathErr(e, "Division by zero")
		}
		return value.Number(math.Mod(float64(ln), float64(rn))), nil
	default:
		return nil, i.runtimeErr(e, "unknown arithmetic operator %q", e.Operator)
	}
}

func (i *Interpreter) evalOrdering(e *ast.BinaryExpression, left, right value.Value) (value.Value, error) {
	less, ok := value.Less(left, right)
	if !ok {
		return nil, i.typeErr(e, "cannot compare %s and %s", left.Type(), right.Type())
	}
	equal := value.Equal(left, right)
	switch e.Operator {
	case "GreaterThan":
		return value.Bool(!less && !equal), nil
	case "LessThan":
		return value.Bool(less), nil
	case "GreaterThanOrEqual":
		return value.Bool(!less), nil
	case "LessThanOrEqual":
		return value.Bool(less || equal), nil
	default:
		return nil, i.runtimeErr(e, "unknown comparison operator %q", e.Operator)
	}
}

func (i *Interpreter) evalCall(e *ast.CallExpression) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for idx, a := range e.Args {
		v, err := i.evalExpression(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	if ident, ok := e.Callee.(*ast.Identifier); ok {
		return i.callNamed(e, ident.Name, args)
	}

	callee, err := i.evalExpression(e.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, i.typeErr(e, "%s is not callable", callee.Type())
	}
	return i.callFunction(e, fn, args)
}

// callNamed resolves name against the current scope (a Function value
// bound by Make) and falls back to the host registry
// before giving up as an unknown function.
func (i *Interpreter) callNamed(node ast.Node, name string, args []value.Value) (value.Value, error) {
	if v, ok := i.env.Get(name); ok {
		fn, ok := v.(*value.Function)
		if !ok {
			return nil, i.typeErr(node, "%s is not a function", name)
		}
		return i.callFunction(node, fn, args)
	}
	if host, ok := i.host[name]; ok {
		if len(args) != host.arity {
			return nil, i.runtimeErr(node, "%s expects %d argument(s), got %d", name, host.arity, len(args))
		}
		v, errVal := host.fn(args)
		if errVal != nil {
			errVal.Frames = i.currentStack(node)
			return nil, throwValue(errVal)
		}
		return v, nil
	}
	return nil, i.runtimeErr(node, "unknown function %q", name)
}

// callFunction checks arity, evaluates default parameters in the
// function's captured environment, runs the body in a fresh call scope,
// unwinds on Return, and returns null on fall-off-the-end.
func (i *Interpreter) callFunction(node ast.Node, fn *value.Function, args []value.Value) (value.Value, error) {
	if len(args) > len(fn.Params) {
		return nil, i.runtimeErr(node, "%s expects at most %d argument(s), got %d", fnLabel(fn), len(fn.Params), len(args))
	}

	closure, ok := fn.Closure.(*Environment)
	if !ok {
		return nil, i.runtimeErr(node, "internal: function closure has the wrong environment type")
	}
	callScope := NewEnclosedEnvironment(closure)

	for idx, param := range fn.Params {
		if idx < len(args) {
			callScope.Define(param.Name, args[idx])
			continue
		}
		if param.Default == nil {
			return nil, i.runtimeErr(node, "%s is missing required argument %q", fnLabel(fn), param.Name)
		}
		savedEnv := i.env
		i.env = callScope
		v, err := i.evalExpression(param.Default)
		i.env = savedEnv
		if err != nil {
			return nil, err
		}
		callScope.Define(param.Name, v)
	}

	savedEnv := i.env
	i.env = callScope
	i.pushFrame(fnLabel(fn), node.Line())
	f, err := i.evalStatement(fn.Body)
	i.popFrame()
	i.env = savedEnv
	if err != nil {
		return nil, err
	}
	if f.kind == flowReturn {
		if f.value == nil {
			return value.Null, nil
		}
		return f.value, nil
	}
	return value.Null, nil
}

func fnLabel(fn *value.Function) string {
	if fn.Name == "" {
		return "anonymous function"
	}
	return fn.Name
}
