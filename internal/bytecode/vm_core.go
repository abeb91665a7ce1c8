package bytecode

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/value"
)

// HostFunction mirrors internal/interp.HostFunction so a Host Callback
// Interface collaborator can be registered on either backend
// with the same function value, just a different named parameter type.
type HostFunction func(args []value.Value) (value.Value, *value.ErrorValue)

type hostEntry struct {
	arity int
	fn    HostFunction
}

// Loader mirrors internal/interp.Loader; internal/module.FileLoader
// satisfies both without modification.
type Loader interface {
	Load(path string) (source string, resolvedPath string, err error)
}

const cacheSize = 256 // direct-mapped, power-of-two global cache

// cacheEntry is one slot of the VM's inline cache for global-variable
// lookup. version must equal the VM's current cacheVersion for the entry
// to be trusted; any global store bumps cacheVersion, invalidating every
// slot in O(1) rather than hunting down aliases.
type cacheEntry struct {
	name    string
	cell    *Cell
	version uint64
}

// tryHandler is one entry of the VM's runtime try/catch stack, pushed by
// OpPushTryHandler and popped either normally (OpPopTryHandler) or by
// unwind-to-handler when OpThrow fires.
type tryHandler struct {
	target     int32 // chunk-local catch-dispatch instruction index
	frameIndex int   // index into vm.frames this handler belongs to
	stackLen   int   // vm.stack length to restore before resuming at target
}

// callFrame is one activation record. Locals are always boxed in a *Cell
// (see Cell/UpvalueDef in chunk.go) so a closure created inside this frame
// shares the same binding, not a copy.
type callFrame struct {
	chunk    *Chunk
	ip       int
	locals   []*Cell
	upvalues []*Cell
	argc     int
	name     string
	tryBase  int // len(vm.tryHandlers) when this frame was entered
}

// VMStats reports execution counters.
type VMStats struct {
	InstructionsExecuted uint64
	CallCount            uint64
	GlobalCacheHits      uint64
	GlobalCacheMisses    uint64
}

// VM is a stack-based bytecode interpreter for a single program run.
// It shares internal/value's value model with internal/interp so both
// back-ends produce identical observables.
type VM struct {
	stack  []value.Value
	frames []callFrame

	globals map[string]*Cell
	cache   [cacheSize]cacheEntry
	version uint64

	tryHandlers []tryHandler

	out io.Writer
	in  *bufio.Reader

	file string

	host map[string]hostEntry

	loader  Loader
	modules map[string]map[string]*Cell // resolved path -> module globals
	loading map[string]bool

	stats *VMStats
}

// NewVM creates a VM whose Write output goes to out, Ask input comes from
// in, and file names the program for diagnostics and Import resolution.
func NewVM(out io.Writer, in io.Reader, file string) *VM {
	return &VM{
		stack:   make([]value.Value, 0, 256),
		globals: make(map[string]*Cell),
		out:     out,
		in:      bufio.NewReader(in),
		file:    file,
		host:    make(map[string]hostEntry),
		modules: make(map[string]map[string]*Cell),
		loading: make(map[string]bool),
	}
}

// SetLoader attaches the collaborator used to resolve Import statements.
func (vm *VM) SetLoader(l Loader) { vm.loader = l }

// RegisterHost adds a Host Callback Interface collaborator.
func (vm *VM) RegisterHost(name string, arity int, fn HostFunction) {
	vm.host[name] = hostEntry{arity: arity, fn: fn}
}

// EnableStats turns on instruction/call/cache counters, returning the
// struct they are accumulated into.
func (vm *VM) EnableStats() *VMStats {
	vm.stats = &VMStats{}
	return vm.stats
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(fromTop int) value.Value {
	return vm.stack[len(vm.stack)-1-fromTop]
}

func (vm *VM) frame() *callFrame { return &vm.frames[len(vm.frames)-1] }

// hashName computes the direct-mapped cache slot for a global name.
func hashName(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() & (cacheSize - 1))
}

// loadGlobal resolves name through the inline cache before falling back to
// the backing map, stamping a fresh cache entry on a miss.
func (vm *VM) loadGlobal(name string) (*Cell, bool) {
	slot := hashName(name)
	entry := &vm.cache[slot]
	if entry.version == vm.version && entry.name == name {
		if vm.stats != nil {
			vm.stats.GlobalCacheHits++
		}
		return entry.cell, true
	}
	if vm.stats != nil {
		vm.stats.GlobalCacheMisses++
	}
	cell, ok := vm.globals[name]
	if !ok {
		return nil, false
	}
	*entry = cacheEntry{name: name, cell: cell, version: vm.version}
	return cell, true
}

// storeGlobal writes name, creating it if unknown, and bumps the cache
// version so every cached entry is invalidated in O(1).
func (vm *VM) storeGlobal(name string, v value.Value) {
	if cell, ok := vm.globals[name]; ok {
		cell.Value = v
	} else {
		vm.globals[name] = &Cell{Value: v}
	}
	vm.version++
}

func (vm *VM) runtimeErr(format string, args ...any) *value.ErrorValue {
	return vm.newErr(value.RuntimeError, format, args...)
}

func (vm *VM) typeErr(format string, args ...any) *value.ErrorValue {
	return vm.newErr(value.TypeError, format, args...)
}

func (vm *VM) mathErr(format string, args ...any) *value.ErrorValue {
	return vm.newErr(value.MathError, format, args...)
}

func (vm *VM) newErr(kind value.ErrorKind, format string, args ...any) *value.ErrorValue {
	ev := value.NewError(kind, fmt.Sprintf(format, args...))
	ev.Frames = vm.currentStack()
	return ev
}

// currentStack snapshots every active call frame, innermost last, the
// same shape internal/interp.currentStack produces so uncaught-error
// rendering is identical across both backends.
func (vm *VM) currentStack() []value.StackFrame {
	frames := make([]value.StackFrame, 0, len(vm.frames))
	for _, f := range vm.frames {
		frames = append(frames, value.StackFrame{FunctionName: f.name, File: vm.file, Line: f.chunk.LineFor(f.ip - 1)})
	}
	return frames
}

func (vm *VM) write(v value.Value) {
	fmt.Fprintln(vm.out, v.String())
}

func (vm *VM) readLine() (string, error) {
	line, err := vm.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// builtinKindByName is duplicated from internal/interp.builtinKindByName:
// both backends need the identical case-insensitive lookup when building
// an error value from a phrasal `error of type ...`.
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
