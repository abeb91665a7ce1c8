package interp

import (
	"math"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

func (i *Interpreter) evalStatement(stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return i.evalBlock(s)
	case *ast.WriteStatement:
		return i.evalWrite(s)
	case *ast.AskStatement:
		return i.evalAsk(s)
	case *ast.SetStatement:
		return i.evalSet(s)
	case *ast.IncDecStatement:
		return i.evalIncDec(s)
	case *ast.IfStatement:
		return i.evalIf(s)
	case *ast.WhileStatement:
		return i.evalWhile(s)
	case *ast.RepeatStatement:
		return i.evalRepeat(s)
	case *ast.MakeStatement:
		return i.evalMake(s)
	case *ast.ReturnStatement:
		return i.evalReturn(s)
	case *ast.UseStatement:
		return i.evalUse(s)
	case *ast.ImportStatement:
		return flow{}, i.doImport(s.Path, s)
	case *ast.TryStatement:
		return i.evalTry(s)
	case *ast.ThrowStatement:
		return i.evalThrow(s)
	case *ast.ExpressionStatement:
		_, err := i.evalExpression(s.Expr)
		return flow{}, err
	case *ast.BreakStatement:
		return flow{kind: flowBreak}, nil
	case *ast.ContinueStatement:
		return flow{kind: flowContinue}, nil
	default:
		return flow{}, i.runtimeErr(stmt, "cannot execute statement of type %T", stmt)
	}
}

// evalBlock runs a block's statements in the current scope. Callers
// that need a fresh scope (If/While/Repeat/try, function bodies) push
// one themselves before calling this, so a nested block never creates
// more scopes than the construct it belongs to.
func (i *Interpreter) evalBlock(b *ast.BlockStatement) (flow, error) {
	for _, s := range b.Statements {
		f, err := i.evalStatement(s)
		if err != nil {
			return flow{}, err
		}
		if f.kind != flowNone {
			return f, nil
		}
	}
	return flow{}, nil
}

// runInNewScope pushes a child scope over the current environment,
// runs body in it, and restores the previous environment before
// returning.
func (i *Interpreter) runInNewScope(body ast.Statement) (flow, error) {
	outer := i.env
	i.env = NewEnclosedEnvironment(outer)
	f, err := i.evalStatement(body)
	i.env = outer
	return f, err
}

func (i *Interpreter) evalWrite(s *ast.WriteStatement) (flow, error) {
	v, err := i.evalExpression(s.Value)
	if err != nil {
		return flow{}, err
	}
	i.write(v)
	return flow{}, nil
}

func (i *Interpreter) evalAsk(s *ast.AskStatement) (flow, error) {
	line, err := i.readLine()
	if err != nil && line == "" {
		line = ""
	}
	i.env.Set(s.Name, value.String(line))
	return flow{}, nil
}

func (i *Interpreter) evalSet(s *ast.SetStatement) (flow, error) {
	v, err := i.evalExpression(s.Value)
	if err != nil {
		return flow{}, err
	}
	i.env.Set(s.Name, v)
	return flow{}, nil
}

func (i *Interpreter) evalIncDec(s *ast.IncDecStatement) (flow, error) {
	cur, ok := i.env.Get(s.Name)
	if !ok {
		return flow{}, i.runtimeErr(s, "undefined variable %q", s.Name)
	}
	curNum, ok := cur.(value.Number)
	if !ok {
		return flow{}, i.typeErr(s, "%q is not a number", s.Name)
	}
	amount := value.Number(1)
	if s.Amount != nil {
		v, err := i.evalExpression(s.Amount)
		if err != nil {
			return flow{}, err
		}
		n, ok := v.(value.Number)
		if !ok {
			return flow{}, i.typeErr(s, "increase/decrease amount must be a number")
		}
		amount = n
	}
	if s.Decrement {
		i.env.Set(s.Name, curNum-amount)
	} else {
		i.env.Set(s.Name, curNum+amount)
	}
	return flow{}, nil
}

func (i *Interpreter) evalIf(s *ast.IfStatement) (flow, error) {
	cond, err := i.evalExpression(s.Condition)
	if err != nil {
		return flow{}, err
	}
	if value.Truthy(cond) {
		return i.runInNewScope(s.Then)
	}
	if s.Else != nil {
		return i.runInNewScope(s.Else)
	}
	return flow{}, nil
}

func (i *Interpreter) evalWhile(s *ast.WhileStatement) (flow, error) {
	for {
		cond, err := i.evalExpression(s.Condition)
		if err != nil {
			return flow{}, err
		}
		if !value.Truthy(cond) {
			return flow{}, nil
		}
		f, err := i.runInNewScope(s.Body)
		if err != nil {
			return flow{}, err
		}
		switch f.kind {
		case flowBreak:
			return flow{}, nil
		case flowContinue:
			continue
		case flowReturn:
			return f, nil
		}
	}
}

// evalRepeat implements `Repeat N [times]` with the resolved Open
// Question: N is truncated toward zero, then must be >= 0.
func (i *Interpreter) evalRepeat(s *ast.RepeatStatement) (flow, error) {
	countVal, err := i.evalExpression(s.Count)
	if err != nil {
		return flow{}, err
	}
	n, ok := countVal.(value.Number)
	if !ok {
		return flow{}, i.typeErr(s, "repeat count must be a number")
	}
	count := math.Trunc(float64(n))
	if count < 0 {
		return flow{}, i.runtimeErr(s, "repeat count must not be negative")
	}
	for c := 0.0; c < count; c++ {
		f, err := i.runInNewScope(s.Body)
		if err != nil {
			return flow{}, err
		}
		switch f.kind {
		case flowBreak:
			return flow{}, nil
		case flowContinue:
			continue
		case flowReturn:
			return f, nil
		}
	}
	return flow{}, nil
}

func (i *Interpreter) evalMake(s *ast.MakeStatement) (flow, error) {
	params := make([]value.Param, len(s.Params))
	for idx, p := range s.Params {
		params[idx] = value.Param{Name: p.Name, Default: p.Default}
	}
	fn := &value.Function{Name: s.Name, Params: params, Body: s.Body, Closure: i.env}
	i.env.Define(s.Name, fn)
	return flow{}, nil
}

func (i *Interpreter) evalReturn(s *ast.ReturnStatement) (flow, error) {
	if s.Value == nil {
		return flow{kind: flowReturn, value: value.Null}, nil
	}
	v, err := i.evalExpression(s.Value)
	if err != nil {
		return flow{}, err
	}
	return flow{kind: flowReturn, value: v}, nil
}

func (i *Interpreter) evalUse(s *ast.UseStatement) (flow, error) {
	args := make([]value.Value, len(s.Args))
	for idx, a := range s.Args {
		v, err := i.evalExpression(a)
		if err != nil {
			return flow{}, err
		}
		args[idx] = v
	}
	_, err := i.callNamed(s, s.Name, args)
	return flow{}, err
}

func (i *Interpreter) evalThrow(s *ast.ThrowStatement) (flow, error) {
	v, err := i.evalExpression(s.Value)
	if err != nil {
		return flow{}, err
	}
	if ev, ok := v.(*value.ErrorValue); ok {
		ev.Frames = i.currentStack(s)
		return flow{}, throwValue(ev)
	}
	// A bare string (or any other value) thrown directly is wrapped as
	// RuntimeError.
	return flow{}, i.runtimeErr(s, "%s", v.String())
}

// evalTry unwinds try/catch/finally: catch arms are tried in source
// order, the finally body runs on every exit
// path, and an error or non-local exit raised by finally itself
// supersedes whatever was propagating before it ran.
func (i *Interpreter) evalTry(s *ast.TryStatement) (flow, error) {
	bodyFlow, bodyErr := i.runInNewScope(s.Body)

	if ev, ok := asThrown(bodyErr); ok {
		for _, c := range s.Catches {
			if c.Type != "" && !ev.MatchesType(c.Type) {
				continue
			}
			outer := i.env
			i.env = NewEnclosedEnvironment(outer)
			if c.Binding != "" {
				i.env.Define(c.Binding, ev)
			}
			bodyFlow, bodyErr = i.evalBlock(c.Body)
			i.env = outer
			break
		}
	}

	if s.Finally != nil {
		ff, ferr := i.runInNewScope(s.Finally)
		if ferr != nil {
			return flow{}, ferr
		}
		if ff.kind != flowNone {
			return ff, nil
		}
	}

	return bodyFlow, bodyErr
}
