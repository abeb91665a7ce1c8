package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/interp"
	"github.com/AlhaqGH/pohlang/internal/parser"
	"github.com/AlhaqGH/pohlang/internal/value"
	"github.com/gkampitakis/go-snaps/snaps"
)

// run compiles and executes source on the VM, returning captured Write
// output and any uncaught error. It mirrors internal/interp/scenarios_test.go's
// harness so the same source strings exercise both backends.
func run(t *testing.T, source string) (string, *value.ErrorValue) {
	t.Helper()
	program, err := parser.Parse(source, "test.poh")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	chunk, err := Compile(program, "test.poh")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	Optimize(chunk)
	var out bytes.Buffer
	vm := NewVM(&out, strings.NewReader(""), "test.poh")
	_, runErr := vm.Run(chunk)
	return out.String(), runErr
}

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

// TestScenarioF checks the VM's uncaught MathError message matches the
// tree interpreter's exactly, including the capitalized "Division by
// zero" wording.
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
	msg := interp.UncaughtMessage(err, "test.poh")
	if !strings.Contains(msg, "Division by zero") {
		t.Errorf("message %q does not contain %q", msg, "Division by zero")
	}
}
