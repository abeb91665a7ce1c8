// Package interp implements the tree-walking interpreter: it
// evaluates a Program AST directly, maintaining a scope chain and
// producing the same observable behavior (output, errors, values) as
// the bytecode VM in internal/bytecode.
package interp

import "github.com/AlhaqGH/pohlang/internal/value"

// Environment is one scope in the chain. Set never fails: writing to a
// name that is not yet defined anywhere in the chain creates it in the
// current scope, since in this language `Set` is also the declaration
// form.
type Environment struct {
	store map[string]value.Value
	outer *Environment
}

// NewEnvironment creates a root-level environment with no outer scope,
// used for a program's (or a module's) global scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]value.Value)}
}

// NewEnclosedEnvironment creates a scope nested inside outer, used when
// entering an If/While/Repeat/try block or a function call.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]value.Value), outer: outer}
}

// Get searches this scope, then each outer scope in turn.
func (e *Environment) Get(name string) (value.Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Set writes to the nearest scope that already defines name; if no
// scope defines it, it defines it in the current scope.
// It always succeeds, so the bool result (required by value.Environment)
// is always true.
func (e *Environment) Set(name string, v value.Value) bool {
	for scope := e; scope != nil; scope = scope.outer {
		if _, ok := scope.store[name]; ok {
			scope.store[name] = v
			return true
		}
	}
	e.store[name] = v
	return true
}

// Define creates or overwrites a binding in this scope specifically,
// used for function parameters and loop/try bindings that must shadow
// rather than write through to an outer scope.
func (e *Environment) Define(name string, v value.Value) {
	e.store[name] = v
}
