// Package poh is the public embedding API for the PohLang core: an
// Engine that parses, tree-walk-interprets, or bytecode-compiles and
// runs PohLang source, for collaborators such as the CLI.
//
// The functional-options Engine constructor and its Compile/Eval/Parse
// method names (engine.Compile, engine.Eval, engine.Parse,
// engine.SetOutput, engine.RegisterFunction) give collaborators one
// small surface for parsing and execution. It does not cover .pbc
// serialization or host-function value types, so the CLI still imports
// internal/bytecode and internal/value, and pkg/jsonbridge imports
// internal/value.
package poh

import (
	"bytes"
	"io"
	"os"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/bytecode"
	"github.com/AlhaqGH/pohlang/internal/interp"
	"github.com/AlhaqGH/pohlang/internal/parser"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput directs Write/Print output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option { return func(e *Engine) { e.out = w } }

// WithInput directs Ask/Input reads to r instead of os.Stdin.
func WithInput(r io.Reader) Option { return func(e *Engine) { e.in = r } }

// WithLoader attaches the collaborator used to resolve Import statements
// on both backends.
func WithLoader(l Loader) Option { return func(e *Engine) { e.loader = l } }

// WithOptimizer turns on the bytecode optimizer for every
// RunBytecode/Compile call. Off by default, an opt-in flag.
func WithOptimizer() Option { return func(e *Engine) { e.optimize = true } }

// WithStats enables VM instruction/call/cache counters for RunBytecode;
// the counters are readable via Stats after the run completes.
func WithStats() Option { return func(e *Engine) { e.wantStats = true } }

// Loader resolves an Import path to source text. internal/module.FileLoader
// and any in-memory test double satisfy both internal/interp.Loader and
// internal/bytecode.Loader already; Engine adapts whichever is passed to
// the backend it is currently driving.
type Loader interface {
	Load(path string) (source, resolvedPath string, err error)
}

// Engine is a single PohLang program host: it owns I/O, an optional
// import loader, and host-function registrations shared across however
// many Run/Compile/RunBytecode calls a collaborator makes against it.
type Engine struct {
	out       io.Writer
	in        io.Reader
	loader    Loader
	optimize  bool
	wantStats bool

	hostFuncs []registeredHost
	stats     *bytecode.VMStats
}

type registeredHost struct {
	name  string
	arity int
	fn    interp.HostFunction
}

// New creates an Engine. Without WithOutput/WithInput it defaults to
// os.Stdout/os.Stdin, matching a CLI run; embedders typically pass
// WithOutput(&buf) to capture output instead.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{out: os.Stdout, in: os.Stdin}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetOutput redirects subsequent Write/Print output.
func (e *Engine) SetOutput(w io.Writer) { e.out = w }

// RegisterFunction registers a Host Callback Interface collaborator
// under name, called with exactly arity evaluated
// arguments on both backends.
func (e *Engine) RegisterFunction(name string, arity int, fn interp.HostFunction) {
	e.hostFuncs = append(e.hostFuncs, registeredHost{name: name, arity: arity, fn: fn})
}

// Parse lexes and parses source into an AST without interpreting it,
// for callers that only need syntax validation or static inspection.
func (e *Engine) Parse(source, file string) (*ast.Program, error) {
	return parser.Parse(source, file)
}

// Run parses and tree-walk-interprets source to completion. A non-nil
// error is always an uncaught runtime error; render it with
// UncaughtMessage.
func (e *Engine) Run(source, file string) error {
	program, err := e.Parse(source, file)
	if err != nil {
		return err
	}
	it := interp.New(e.out, e.in, file)
	if e.loader != nil {
		it.SetLoader(e.loader)
	}
	for _, h := range e.hostFuncs {
		it.RegisterHost(h.name, h.arity, h.fn)
	}
	return it.Run(program)
}

// Compile parses source and compiles it to a bytecode Chunk, applying
// the optimizer when WithOptimizer was given.
func (e *Engine) Compile(source, file string) (*bytecode.Chunk, error) {
	program, err := e.Parse(source, file)
	if err != nil {
		return nil, err
	}
	chunk, err := bytecode.Compile(program, file)
	if err != nil {
		return nil, err
	}
	if e.optimize {
		bytecode.Optimize(chunk)
	}
	return chunk, nil
}

// RunBytecode executes an already-compiled Chunk on the VM.
// When WithStats was given, Stats returns the run's counters afterward.
func (e *Engine) RunBytecode(chunk *bytecode.Chunk, file string) (value.Value, *value.ErrorValue) {
	vm := bytecode.NewVM(e.out, e.in, file)
	if e.loader != nil {
		vm.SetLoader(e.loader)
	}
	for _, h := range e.hostFuncs {
		vm.RegisterHost(h.name, h.arity, bytecode.HostFunction(h.fn))
	}
	if e.wantStats {
		e.stats = vm.EnableStats()
	}
	return vm.Run(chunk)
}

// Stats returns the counters accumulated by the most recent RunBytecode
// call, or nil if WithStats was never given.
func (e *Engine) Stats() *bytecode.VMStats { return e.stats }

// Eval runs source through the tree interpreter and returns whatever it
// printed, for quick one-shot evaluation (the tests use this, not Run,
// when they want the output captured rather than streamed).
func (e *Engine) Eval(source, file string) (string, error) {
	var buf bytes.Buffer
	prevOut := e.out
	e.out = &buf
	defer func() { e.out = prevOut }()
	if err := e.Run(source, file); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}

// Disassemble compiles source and writes its disassembly listing to w.
func (e *Engine) Disassemble(source, file string, w io.Writer) error {
	chunk, err := e.Compile(source, file)
	if err != nil {
		return err
	}
	bytecode.NewDisassembler(w, chunk).Disassemble()
	return nil
}

// UncaughtMessage renders an uncaught *value.ErrorValue from either
// backend identically, since both share internal/value's ErrorValue
// and internal/interp.UncaughtMessage's format string does not depend
// on anything tree-interpreter-specific.
func UncaughtMessage(ev *value.ErrorValue, file string) string {
	return interp.UncaughtMessage(ev, file)
}

// AsUncaught extracts the *value.ErrorValue an Engine.Run error
// carries, for callers that want to distinguish a parse error (a plain
// error) from a runtime error (an uncaught ErrorValue).
func AsUncaught(err error) (*value.ErrorValue, bool) {
	return interp.AsUncaught(err)
}
