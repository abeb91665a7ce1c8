package interp

import (
	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/errors"
	"github.com/AlhaqGH/pohlang/internal/parser"
)

// doImport implements `Import "path"`: the referenced file
// is parsed and executed once per resolved path, in a module scope of
// its own; a cycle (a path still being loaded when it is imported
// again) is detected and broken by treating the re-import as a no-op.
// Names defined at the module's top level become accessible in the
// importing scope.
func (i *Interpreter) doImport(path string, node ast.Node) error {
	if i.loader == nil {
		return i.runtimeErr(node, "cannot import %q: no module loader configured", path)
	}
	source, resolved, err := i.loader.Load(path)
	if err != nil {
		return i.runtimeErr(node, "cannot import %q: %s", path, err)
	}

	if i.loading[resolved] {
		return nil // cycle: subsequent imports of a path already being loaded are no-ops
	}
	if moduleScope, ok := i.modules[resolved]; ok {
		i.importSymbols(moduleScope)
		return nil
	}

	program, perr := parser.Parse(source, resolved)
	if perr != nil {
		if ce, ok := perr.(*errors.CompilerError); ok {
			return i.runtimeErr(node, "cannot import %q: %s", path, ce.Message)
		}
		return i.runtimeErr(node, "cannot import %q: %s", path, perr)
	}

	i.loading[resolved] = true
	moduleScope := NewEnvironment()
	savedEnv, savedFile := i.env, i.file
	i.env, i.file = moduleScope, resolved
	runErr := i.Run(program)
	i.env, i.file = savedEnv, savedFile
	delete(i.loading, resolved)
	if runErr != nil {
		return runErr
	}

	i.modules[resolved] = moduleScope
	i.importSymbols(moduleScope)
	return nil
}

// importSymbols copies every top-level binding from a module's global
// scope into the importing scope.
func (i *Interpreter) importSymbols(moduleScope *Environment) {
	for name, v := range moduleScope.store {
		i.env.Define(name, v)
	}
}
