package bytecode

import (
	"reflect"
	"testing"

	"github.com/AlhaqGH/pohlang/internal/parser"
	"github.com/AlhaqGH/pohlang/internal/value"
)

// compileSource is a small helper shared by this file's round-trip tests.
func compileSource(t *testing.T, source string) *Chunk {
	t.Helper()
	return compileSourceNamed(t, source, "test.poh")
}

// compileSourceNamed is compileSource with a caller-chosen file name, for
// tests that need to exercise an empty file name.
func compileSourceNamed(t *testing.T, source, file string) *Chunk {
	t.Helper()
	program, err := parser.Parse(source, file)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	chunk, err := Compile(program, file)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk
}

// TestRoundTripWithDebugInfo checks that decode(encode(C)) equals C
// byte-for-byte (checked here by deep-equaling the decoded structure,
// which is equivalent for our purposes since Serialize/Deserialize have
// no lossy paths once decoded).
func TestRoundTripWithDebugInfo(t *testing.T) {
	chunk := compileSource(t, `
Start Program
Set xs to [1, 2, 3]
Write total of xs
If xs is equal to xs
    Write "yes"
End
End Program
`)
	Optimize(chunk)

	encoded, err := Serialize(chunk, true)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("deserialize error: %v", err)
	}

	if len(decoded.Code) != len(chunk.Code) {
		t.Fatalf("code length mismatch: got %d, want %d", len(decoded.Code), len(chunk.Code))
	}
	for i := range chunk.Code {
		if decoded.Code[i] != chunk.Code[i] {
			t.Fatalf("instruction %d mismatch: got %+v, want %+v", i, decoded.Code[i], chunk.Code[i])
		}
	}
	if !reflect.DeepEqual(decoded.Debug.LineNumbers, chunk.Debug.LineNumbers) {
		t.Fatalf("line numbers mismatch: got %v, want %v", decoded.Debug.LineNumbers, chunk.Debug.LineNumbers)
	}
	if len(decoded.Constants) != len(chunk.Constants) {
		t.Fatalf("constant pool length mismatch: got %d, want %d", len(decoded.Constants), len(chunk.Constants))
	}
	for i := range chunk.Constants {
		if !value.Equal(asComparable(decoded.Constants[i]), asComparable(chunk.Constants[i])) {
			t.Fatalf("constant %d mismatch: got %v, want %v", i, decoded.Constants[i], chunk.Constants[i])
		}
	}
}

// asComparable passes through every constant value.Equal already handles;
// function prototypes aren't Value-comparable so round-tripping their
// shape is covered separately by TestRoundTripClosure.
func asComparable(v value.Value) value.Value {
	if _, ok := v.(*FunctionProto); ok {
		return value.Null
	}
	return v
}

// TestRoundTripWithoutDebugInfo checks the optional debug_info section is
// genuinely optional on both the write and read side.
func TestRoundTripWithoutDebugInfo(t *testing.T) {
	chunk := compileSource(t, `
Start Program
Write 1 plus 2
End Program
`)
	encoded, err := Serialize(chunk, false)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("deserialize error: %v", err)
	}
	if len(decoded.Debug.LineNumbers) != 0 {
		t.Fatalf("expected no line numbers when debug info is omitted, got %v", decoded.Debug.LineNumbers)
	}
	if len(decoded.Code) != len(chunk.Code) {
		t.Fatalf("code should still round-trip without debug info: got %d, want %d", len(decoded.Code), len(chunk.Code))
	}
}

// TestRoundTripClosure exercises the FunctionProto constant tag, this
// repo's extension for round-tripping a closure's compiled body through
// the constant pool.
func TestRoundTripClosure(t *testing.T) {
	chunk := compileSource(t, `
Start Program
Make makeAdder with x
    Make inner with y set to 10
        Return x plus y
    End
    Return inner
End
Set add2 to makeAdder(2)
Write add2(3)
End Program
`)
	encoded, err := Serialize(chunk, true)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("deserialize error: %v", err)
	}

	var findProto func(c *Chunk) *FunctionProto
	findProto = func(c *Chunk) *FunctionProto {
		for _, cst := range c.Constants {
			if proto, ok := cst.(*FunctionProto); ok {
				return proto
			}
		}
		return nil
	}
	original := findProto(chunk)
	got := findProto(decoded)
	if original == nil || got == nil {
		t.Fatal("expected a FunctionProto constant in both the original and decoded chunk")
	}
	if got.Name != original.Name {
		t.Fatalf("function name mismatch: got %q, want %q", got.Name, original.Name)
	}
	if !reflect.DeepEqual(got.HasDefault, original.HasDefault) {
		t.Fatalf("HasDefault mismatch: got %v, want %v", got.HasDefault, original.HasDefault)
	}
	if len(got.Chunk.Code) != len(original.Chunk.Code) {
		t.Fatalf("nested chunk code length mismatch: got %d, want %d", len(got.Chunk.Code), len(original.Chunk.Code))
	}
}

// TestRoundTripClosureEmptyFileName pins Compile(program, "") as a valid
// call: a nested FunctionProto's chunk then has an empty Debug.SourceFile,
// which must not be mistaken for "this chunk carries no debug info".
func TestRoundTripClosureEmptyFileName(t *testing.T) {
	chunk := compileSourceNamed(t, `
Start Program
Make makeAdder with x
    Make inner with y set to 10
        Return x plus y
    End
    Return inner
End
Set add2 to makeAdder(2)
Write add2(3)
End Program
`, "")
	encoded, err := Serialize(chunk, true)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("deserialize error: %v", err)
	}

	var findProto func(c *Chunk) *FunctionProto
	findProto = func(c *Chunk) *FunctionProto {
		for _, cst := range c.Constants {
			if proto, ok := cst.(*FunctionProto); ok {
				return proto
			}
		}
		return nil
	}
	got := findProto(decoded)
	if got == nil {
		t.Fatal("expected a FunctionProto constant in the decoded chunk")
	}
	if got.Chunk.Debug == nil {
		t.Fatal("nested chunk should still carry debug info when includeDebugInfo is true")
	}
	if len(got.Chunk.Debug.LineNumbers) != len(got.Chunk.Code) {
		t.Fatalf("nested chunk line numbers mismatch: got %d, want %d", len(got.Chunk.Debug.LineNumbers), len(got.Chunk.Code))
	}
}

// TestRoundTripClosureWithoutDebugInfo checks that Serialize(chunk, false)
// strips debug info from a nested FunctionProto's chunk, not just the
// outer one.
func TestRoundTripClosureWithoutDebugInfo(t *testing.T) {
	chunk := compileSource(t, `
Start Program
Make makeAdder with x
    Make inner with y set to 10
        Return x plus y
    End
    Return inner
End
Set add2 to makeAdder(2)
Write add2(3)
End Program
`)
	encoded, err := Serialize(chunk, false)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("deserialize error: %v", err)
	}

	var findProto func(c *Chunk) *FunctionProto
	findProto = func(c *Chunk) *FunctionProto {
		for _, cst := range c.Constants {
			if proto, ok := cst.(*FunctionProto); ok {
				return proto
			}
		}
		return nil
	}
	got := findProto(decoded)
	if got == nil {
		t.Fatal("expected a FunctionProto constant in the decoded chunk")
	}
	if len(got.Chunk.Debug.LineNumbers) != 0 {
		t.Fatalf("nested chunk should have no line numbers when debug info is omitted, got %v", got.Chunk.Debug.LineNumbers)
	}
	if len(got.Chunk.Code) == 0 {
		t.Fatal("nested chunk code should still round-trip without debug info")
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, err := Deserialize([]byte("NOPE1234"))
	if err == nil {
		t.Fatal("expected an error for a bad magic header")
	}
}

func TestDeserializeRejectsVersionMismatch(t *testing.T) {
	chunk := compileSource(t, `
Start Program
Write 1
End Program
`)
	encoded, err := Serialize(chunk, false)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	// Corrupt the version field (bytes 4..8, little-endian u32) to a
	// value this build does not support.
	corrupted := append([]byte{}, encoded...)
	corrupted[4] = 0xFF
	corrupted[5] = 0xFF
	_, err = Deserialize(corrupted)
	if err == nil {
		t.Fatal("expected a fatal load error for an incompatible version")
	}
}
