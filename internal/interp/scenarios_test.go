package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// run parses and executes source, returning captured Write output and
// any uncaught error: parse, execute, capture stdout, scaled down to
// in-memory sources.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	program, err := parser.Parse(source, "test.poh")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""), "test.poh")
	runErr := interp.Run(program)
	return out.String(), runErr
}

// TestScenarioA covers operator precedence.
func TestScenarioA(t *testing.T) {
	out, err := run(t, `
Start Program
Write 2 plus 3 times 4
Write (2 plus 3) times 4
End Program
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_a_output", out)
}

// TestScenarioB covers collections and phrasal built-ins, including
// the non-mutating contract of append/remove.
func TestScenarioB(t *testing.T) {
	out, err := run(t, `
Start Program
Set xs to [10, 20, 30, 40, 50]
Write total of xs
Write largest in xs
Write count of xs
Set ys to append 60 to xs
Set zs to remove 20 from ys
Write zs
End Program
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_b_output", out)
}

// TestScenarioC covers closures and defaulted parameters: the returned `inner` function keeps seeing `x` from its
// defining environment across calls.
func TestScenarioC(t *testing.T) {
	out, err := run(t, `
Start Program
Make makeAdder with x
    Make inner with y set to 10
        Return x plus y
    End
    Return inner
End

Set add2 to makeAdder(2)
Write add2(3)
Write add2()
End Program
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_c_output", out)
}

// TestScenarioD covers try/catch/finally dispatch by error kind and
// the totality of the finally body.
func TestScenarioD(t *testing.T) {
	out, err := run(t, `
Start Program
try this:
    Set e to error of type "ValidationError" with message "bad"
    throw e
if error of type "FileError" as fe
    Write "file"
if error of type "ValidationError" as ve
    Write error message of ve
finally:
    Write "done"
end try
End Program
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_d_output", out)
}

// TestScenarioE exercises Repeat with rebinding loop variables; named
// for the global-cache property it checks in the bytecode VM, but also
// a plain interpreter correctness check.
func TestScenarioE(t *testing.T) {
	out, err := run(t, `
Start Program
Set x to 1
Set total to 0
Repeat 3 times
    Set total to total plus x
    Set x to x plus 1
End
Write total
End Program
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_e_output", out)
}

// TestScenarioF checks that an uncaught MathError reports the source
// line of the faulting expression.
func TestScenarioF(t *testing.T) {
	_, err := run(t, `Start Program
Set a to 10
Set b to 0
Write a divided by b
End Program
`)
	if err == nil {
		t.Fatal("expected an uncaught division-by-zero error")
	}
	ev, ok := AsUncaught(err)
	if !ok {
		t.Fatalf("expected a thrown error value, got %v", err)
	}
	msg := UncaughtMessage(ev, "test.poh")
	if !strings.Contains(msg, "Division by zero") {
		t.Errorf("message %q does not contain %q", msg, "Division by zero")
	}
	if !strings.Contains(msg, "line 4") {
		t.Errorf("message %q does not contain %q", msg, "line 4")
	}
}
