package parser

import (
	"testing"

	"github.com/AlhaqGH/pohlang/internal/ast"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, err := Parse(source, "test.poh")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParsePrecedence(t *testing.T) {
	prog := mustParse(t, `
Start Program
Write 2 plus 3 times 4
End Program
`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	write, ok := prog.Statements[0].(*ast.WriteStatement)
	if !ok {
		t.Fatalf("expected *ast.WriteStatement, got %T", prog.Statements[0])
	}
	bin, ok := write.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression at top level, got %T", write.Value)
	}
	if bin.Operator != "Plus" {
		t.Fatalf("expected the top-level operator to be the lowest-precedence 'Plus', got %q", bin.Operator)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || rhs.Operator != "Times" {
		t.Fatalf("expected 'Times' to bind tighter and nest on the right, got %#v", bin.Right)
	}
}

func TestParseGroupingOverridesPrecedence(t *testing.T) {
	prog := mustParse(t, `
Start Program
Write (2 plus 3) times 4
End Program
`)
	write := prog.Statements[0].(*ast.WriteStatement)
	bin, ok := write.Value.(*ast.BinaryExpression)
	if !ok || bin.Operator != "Times" {
		t.Fatalf("expected the top-level operator to be 'Times' once grouping reorders precedence, got %#v", write.Value)
	}
}

func TestComparisonIsNonAssociative(t *testing.T) {
	_, err := Parse(`
Start Program
Write 1 is less than 2 is less than 3
End Program
`, "test.poh")
	if err == nil {
		t.Fatal("expected a parse error for chained non-associative comparisons")
	}
}

func TestParseListLiteral(t *testing.T) {
	prog := mustParse(t, `
Start Program
Set xs to [10, 20, 30]
End Program
`)
	set := prog.Statements[0].(*ast.SetStatement)
	list, ok := set.Value.(*ast.ListLiteral)
	if !ok {
		t.Fatalf("expected *ast.ListLiteral, got %T", set.Value)
	}
	if len(list.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(list.Elements))
	}
}

func TestParsePhrasalBuiltin(t *testing.T) {
	prog := mustParse(t, `
Start Program
Write total of xs
End Program
`)
	write := prog.Statements[0].(*ast.WriteStatement)
	b, ok := write.Value.(*ast.BuiltinExpression)
	if !ok {
		t.Fatalf("expected *ast.BuiltinExpression, got %T", write.Value)
	}
	if b.Builtin != ast.BuiltinTotalOf {
		t.Fatalf("expected BuiltinTotalOf, got %v", b.Builtin)
	}
}

func TestParseIfOtherwiseEnd(t *testing.T) {
	prog := mustParse(t, `
Start Program
If x is greater than 0
    Write "positive"
Otherwise
    Write "non-positive"
End
End Program
`)
	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Statements[0])
	}
	thenBlock, ok := ifStmt.Then.(*ast.BlockStatement)
	if !ok || len(thenBlock.Statements) != 1 {
		t.Fatalf("expected a one-statement then-block, got %#v", ifStmt.Then)
	}
	elseBlock, ok := ifStmt.Else.(*ast.BlockStatement)
	if !ok || len(elseBlock.Statements) != 1 {
		t.Fatalf("expected a one-statement else-block, got %#v", ifStmt.Else)
	}
}

func TestParseMakeFunctionWithDefault(t *testing.T) {
	prog := mustParse(t, `
Start Program
Make inner with y set to 10
    Return y
End
End Program
`)
	fn, ok := prog.Statements[0].(*ast.MakeStatement)
	if !ok {
		t.Fatalf("expected *ast.MakeStatement, got %T", prog.Statements[0])
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "y" || fn.Params[0].Default == nil {
		t.Fatalf("expected one defaulted parameter 'y', got %#v", fn.Params)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, `
Start Program
try this:
    throw "bad"
if error of type "ValidationError" as ve
    Write error message of ve
finally:
    Write "done"
end try
End Program
`)
	tryStmt, ok := prog.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected *ast.TryStatement, got %T", prog.Statements[0])
	}
	if len(tryStmt.Catches) != 1 {
		t.Fatalf("expected 1 catch arm, got %d", len(tryStmt.Catches))
	}
	if tryStmt.Finally == nil {
		t.Fatal("expected a finally block to be present")
	}
}

func TestParseErrorIncludesPositionAndDidYouMean(t *testing.T) {
	_, err := Parse(`
Start Program
Write totl of xs
End Program
`, "test.poh")
	if err == nil {
		t.Fatal("expected an error for the misspelled phrase")
	}
}

func TestParseDeterminism(t *testing.T) {
	source := `
Start Program
Set xs to [1, 2, 3]
Write total of xs
End Program
`
	p1 := mustParse(t, source)
	p2 := mustParse(t, source)
	if renderStatements(p1) != renderStatements(p2) {
		t.Fatalf("parsing the same source twice produced different ASTs:\n%s\nvs\n%s", renderStatements(p1), renderStatements(p2))
	}
}

func renderStatements(prog *ast.Program) string {
	var out string
	for _, s := range prog.Statements {
		out += s.String() + "\n"
	}
	return out
}

func TestParseUnclosedBlockIsError(t *testing.T) {
	_, err := Parse(`
Start Program
If x is greater than 0
    Write "positive"
End Program
`, "test.poh")
	if err == nil {
		t.Fatal("expected an error for a block missing its End terminator")
	}
}
