package bytecode

import (
	"github.com/AlhaqGH/pohlang/internal/errors"
	"github.com/AlhaqGH/pohlang/internal/parser"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// doImport implements `Import "path"`: the referenced file is
// parsed, compiled, and run once per resolved path in a module scope of
// its own; a cycle (a path still being loaded when it is imported again)
// is a no-op, exactly like internal/interp.doImport. The module's
// top-level globals are then copied into the importing program's globals.
func (vm *VM) doImport(path string) *value.ErrorValue {
	if vm.loader == nil {
		return vm.runtimeErr("cannot import %q: no module loader configured", path)
	}
	source, resolved, err := vm.loader.Load(path)
	if err != nil {
		return vm.runtimeErr("cannot import %q: %s", path, err)
	}

	if vm.loading[resolved] {
		return nil
	}
	if moduleGlobals, ok := vm.modules[resolved]; ok {
		vm.importSymbols(moduleGlobals)
		return nil
	}

	program, perr := parser.Parse(source, resolved)
	if perr != nil {
		if ce, ok := perr.(*errors.CompilerError); ok {
			return vm.runtimeErr("cannot import %q: %s", path, ce.Message)
		}
		return vm.runtimeErr("cannot import %q: %s", path, perr)
	}
	chunk, cerr := Compile(program, resolved)
	if cerr != nil {
		return vm.runtimeErr("cannot import %q: %s", path, cerr)
	}

	vm.loading[resolved] = true
	sub := NewVM(vm.out, vm.in, resolved)
	sub.loader = vm.loader
	sub.host = vm.host
	sub.modules = vm.modules
	sub.loading = vm.loading
	sub.stats = vm.stats
	_, runErr := sub.Run(chunk)
	delete(vm.loading, resolved)
	if runErr != nil {
		return runErr
	}

	vm.modules[resolved] = sub.globals
	vm.importSymbols(sub.globals)
	return nil
}

// importSymbols copies every top-level binding from an imported module's
// globals into the importing VM's own globals, bumping the cache version
// once so the inline cache does not serve a stale miss for a name the
// import just defined.
func (vm *VM) importSymbols(moduleGlobals map[string]*Cell) {
	for name, cell := range moduleGlobals {
		vm.globals[name] = cell
	}
	vm.version++
}
