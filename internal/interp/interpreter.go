package interp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// HostFunction is the shape every Host Callback Interface collaborator
// registers: it receives already-evaluated arguments and
// returns either a value or an error value. The interpreter and the
// bytecode VM both call registered host functions through this exact
// signature, so a collaborator never needs to know which backend is
// running it.
type HostFunction func(args []value.Value) (value.Value, *value.ErrorValue)

type hostEntry struct {
	arity int
	fn    HostFunction
}

// Loader resolves an Import path to source text; internal/module
// implements it against the filesystem. Tests can substitute an
// in-memory Loader.
type Loader interface {
	Load(path string) (source string, resolvedPath string, err error)
}

// Interpreter walks an ast.Program directly. One
// Interpreter corresponds to one program run; module-level globals
// live for its lifetime and are never shared across instances.
type Interpreter struct {
	global *Environment
	env    *Environment

	out io.Writer
	in  *bufio.Reader

	file      string
	callStack []value.StackFrame

	host map[string]hostEntry

	loader  Loader
	modules map[string]*Environment // resolved path -> module's global scope
	loading map[string]bool         // resolved paths currently being imported, for cycle detection
}

// New creates an Interpreter whose top-level scope is empty. out
// receives Write output; in feeds Ask input; file is the display name
// used in stack frames and uncaught-error messages.
func New(out io.Writer, in io.Reader, file string) *Interpreter {
	g := NewEnvironment()
	return &Interpreter{
		global:  g,
		env:     g,
		out:     out,
		in:      bufio.NewReader(in),
		file:    file,
		host:    make(map[string]hostEntry),
		modules: make(map[string]*Environment),
		loading: make(map[string]bool),
	}
}

// SetLoader attaches the collaborator used to resolve Import statements
//. Programs that never use Import do not need one.
func (i *Interpreter) SetLoader(l Loader) { i.loader = l }

// RegisterHost adds a Host Callback Interface collaborator:
// calling `name(...)` or `call name with ...` with exactly arity
// arguments invokes fn instead of looking up a Make-defined function.
func (i *Interpreter) RegisterHost(name string, arity int, fn HostFunction) {
	i.host[name] = hostEntry{arity: arity, fn: fn}
}

// Run executes program to completion. A non-nil returned error is
// always an uncaught *value.ErrorValue reachable via errors.As-style
// extraction through AsUncaught; render it with UncaughtMessage.
func (i *Interpreter) Run(program *ast.Program) error {
	for _, stmt := range program.Statements {
		f, err := i.evalStatement(stmt)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			// Stop/Skip/Return at top level have nothing to break out
			// of; this is a RuntimeError.
			return i.runtimeErr(stmt, "%s used outside a loop or function", flowName(f.kind))
		}
	}
	return nil
}

// AsUncaught extracts the *value.ErrorValue carried by an error
// returned from Run, if any.
func AsUncaught(err error) (*value.ErrorValue, bool) { return asThrown(err) }

func flowName(k flowKind) string {
	switch k {
	case flowBreak:
		return "Stop"
	case flowContinue:
		return "Skip"
	case flowReturn:
		return "Return"
	default:
		return "flow"
	}
}

func (i *Interpreter) write(v value.Value) {
	fmt.Fprintln(i.out, v.String())
}

func (i *Interpreter) readLine() (string, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

func (i *Interpreter) pushFrame(name string, line int) {
	i.callStack = append(i.callStack, value.StackFrame{FunctionName: name, File: i.file, Line: line})
}

func (i *Interpreter) popFrame() {
	i.callStack = i.callStack[:len(i.callStack)-1]
}
