package poh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/value"
)

func TestEngineEvalTreeInterpreter(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := e.Eval(`
Start Program
Write 2 plus 3 times 4
End Program
`, "test.poh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "14" {
		t.Fatalf("expected output 14, got %q", out)
	}
}

func TestEngineCompileAndRunBytecodeMatchesTreeInterpreter(t *testing.T) {
	source := `
Start Program
Set xs to [10, 20, 30, 40, 50]
Write total of xs
Write largest in xs
End Program
`
	treeEngine, _ := New()
	treeOut, err := treeEngine.Eval(source, "test.poh")
	if err != nil {
		t.Fatalf("tree interpreter error: %v", err)
	}

	var vmBuf bytes.Buffer
	vmEngine, _ := New(WithOutput(&vmBuf), WithOptimizer())
	chunk, err := vmEngine.Compile(source, "test.poh")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, runErr := vmEngine.RunBytecode(chunk, "test.poh"); runErr != nil {
		t.Fatalf("unexpected VM error: %v", runErr)
	}

	if treeOut != vmBuf.String() {
		t.Fatalf("tree interpreter and bytecode VM diverged: tree=%q vm=%q", treeOut, vmBuf.String())
	}
}

func TestEngineRunSurfacesUncaughtError(t *testing.T) {
	e, _ := New()
	err := e.Run(`
Start Program
Set a to 10
Set b to 0
Write a divided by b
End Program
`, "test.poh")
	if err == nil {
		t.Fatal("expected an uncaught division-by-zero error")
	}
	ev, ok := AsUncaught(err)
	if !ok {
		t.Fatalf("expected AsUncaught to recognize the error, got %v", err)
	}
	msg := UncaughtMessage(ev, "test.poh")
	if !strings.Contains(msg, "Division by zero") {
		t.Fatalf("expected the uncaught message to mention division by zero, got %q", msg)
	}
	if !strings.Contains(msg, "line 4") {
		t.Fatalf("expected the uncaught message to cite line 4, got %q", msg)
	}
}

func TestEngineRegisterFunctionHostCallback(t *testing.T) {
	var buf bytes.Buffer
	e, _ := New(WithOutput(&buf))
	called := false
	e.RegisterFunction("shout", 1, func(args []value.Value) (value.Value, *value.ErrorValue) {
		called = true
		s, ok := args[0].(value.String)
		if !ok {
			return nil, value.NewError(value.TypeError, "shout requires a string")
		}
		return value.String(strings.ToUpper(string(s))), nil
	})
	out, err := e.Eval(`
Start Program
Write shout("hi")
End Program
`, "test.poh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected the registered host function to be invoked")
	}
	if strings.TrimSpace(out) != "HI" {
		t.Fatalf("expected host callback output HI, got %q", out)
	}
}

func TestEngineDisassembleProducesListing(t *testing.T) {
	e, _ := New()
	var buf bytes.Buffer
	err := e.Disassemble(`
Start Program
Write 1 plus 2
End Program
`, "test.poh", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a non-empty disassembly listing")
	}
}
