package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/parser"
)

// compileUnoptimized parses and compiles source without running the
// optimizer, so tests can exercise the raw compiler/VM behavior
// independent of the four optimization passes.
func compileUnoptimized(t *testing.T, source string) *Chunk {
	t.Helper()
	program, err := parser.Parse(source, "test.poh")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	chunk, err := Compile(program, "test.poh")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk
}

func TestGlobalInlineCacheHitsAfterFirstLookup(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Set counter to 0
Write counter
Write counter
Write counter
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	stats := vm.EnableStats()
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.GlobalCacheHits == 0 {
		t.Error("expected at least one cache hit after the global was looked up once")
	}
}

func TestGlobalStoreInvalidatesCache(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Set x to 1
Write x
Set x to 2
Write x
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	want := "1\n2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFunctionObservesGlobalMutationAcrossCalls(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Set total to 0
Make tally with n
    Set total to total plus n
    Return total
End

Write tally(5)
Write tally(10)
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	want := "5\n15\n"
	if got != want {
		t.Errorf("got %q, want %q: closures should observe later mutation of a shared global/local binding", got, want)
	}
}

func TestCallWithMissingArgUsesDefault(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Make greet with name set to "world"
    Return name
End
Write greet()
Write greet("PohLang")
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	want := "world\nPohLang\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTryCatchUnwindsStackToHandler(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Set before to "untouched"
try this:
    Set a to 1
    Set b to 2
    Set c to 3
    throw error of type "ValidationError" with message "boom"
if error of type "ValidationError" as ve
    Write error message of ve
end try
Write before
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("unexpected uncaught error: %v", err)
	}
	got := out.String()
	want := "boom\nuntouched\n"
	if got != want {
		t.Errorf("got %q, want %q: the VM stack must be restored to the try handler's depth before dispatch", got, want)
	}
}

func TestUncaughtErrorPropagatesThroughNestedCalls(t *testing.T) {
	chunk := compileUnoptimized(t, `
Start Program
Make inner with x
    Return x divided by 0
End
Make outer with y
    Return inner(y)
End
Write outer(5)
End Program
`)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	_, err := vm.Run(chunk)
	if err == nil {
		t.Fatal("expected an uncaught MathError to propagate out of both call frames")
	}
	if !strings.Contains(err.Message, "Division by zero") {
		t.Errorf("got message %q, want it to contain %q", err.Message, "Division by zero")
	}
	if len(err.Frames) < 2 {
		t.Errorf("expected at least 2 stack frames (inner, outer), got %d", len(err.Frames))
	}
}
