package interp

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/ast"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// runtimeErr builds a thrown RuntimeError, stamping the interpreter's
// current call stack.
func (i *Interpreter) runtimeErr(node ast.Node, format string, args ...any) error {
	return i.newErr(value.RuntimeError, node, format, args...)
}

func (i *Interpreter) typeErr(node ast.Node, format string, args ...any) error {
	return i.newErr(value.TypeError, node, format, args...)
}

func (i *Interpreter) mathErr(node ast.Node, format string, args ...any) error {
	return i.newErr(value.MathError, node, format, args...)
}

func (i *Interpreter) newErr(kind value.ErrorKind, node ast.Node, format string, args ...any) error {
	ev := value.NewError(kind, fmt.Sprintf(format, args...))
	ev.Frames = i.currentStack(node)
	return throwValue(ev)
}

// currentStack snapshots the call stack, appending the raising node's
// own line as the innermost frame.
func (i *Interpreter) currentStack(node ast.Node) []value.StackFrame {
	frames := make([]value.StackFrame, len(i.callStack))
	copy(frames, i.callStack)
	line := 0
	if node != nil {
		line = node.Line()
	}
	name := "<program>"
	if len(frames) > 0 {
		name = frames[len(frames)-1].FunctionName
	}
	frames = append(frames, value.StackFrame{FunctionName: name, File: i.file, Line: line})
	return frames
}

// UncaughtMessage renders the user-visible uncaught-error message:
// `"<KindDescription>: <message> (at line N) in file: <path>"`
// followed by one line per stack frame, innermost first.
func UncaughtMessage(ev *value.ErrorValue, file string) string {
	line := 0
	if len(ev.Frames) > 0 {
		line = ev.Frames[len(ev.Frames)-1].Line
	}
	msg := fmt.Sprintf("%s: %s (at line %d) in file: %s", ev.KindDescription(), ev.Message, line, file)
	for j := len(ev.Frames) - 1; j >= 0; j-- {
		f := ev.Frames[j]
		msg += fmt.Sprintf("\n  at %s (%s:%d)", f.FunctionName, f.File, f.Line)
	}
	return msg
}
