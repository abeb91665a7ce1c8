package value

import "testing"

func TestErrorKindDescriptionBuiltins(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{RuntimeError, "a runtime error"},
		{TypeError, "a type error"},
		{MathError, "a math error"},
		{FileError, "a file error"},
		{ValidationError, "a validation error"},
	}
	for _, tt := range tests {
		ev := NewError(tt.kind, "boom")
		if got := ev.KindDescription(); got != tt.want {
			t.Errorf("KindDescription(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCustomErrorKindDescription(t *testing.T) {
	ev := NewCustomError("NetworkTimeout", "no response")
	if got, want := ev.KindDescription(), `an error of type "NetworkTimeout"`; got != want {
		t.Errorf("KindDescription() = %q, want %q", got, want)
	}
	if got, want := ev.KindName(), "NetworkTimeout"; got != want {
		t.Errorf("KindName() = %q, want %q", got, want)
	}
}

// TestMatchesTypeCaseInsensitiveOnBuiltins checks that matching against
// a built-in kind name is case-insensitive, but a Custom kind's name
// must match exactly.
func TestMatchesTypeCaseInsensitiveOnBuiltins(t *testing.T) {
	ev := NewError(ValidationError, "bad")
	if !ev.MatchesType("ValidationError") {
		t.Error("expected exact-case match")
	}
	if !ev.MatchesType("validationerror") {
		t.Error("expected case-insensitive match on a built-in kind")
	}
	if ev.MatchesType("FileError") {
		t.Error("did not expect a mismatched built-in kind to match")
	}
}

func TestMatchesTypeExactOnCustom(t *testing.T) {
	ev := NewCustomError("BadInput", "oops")
	if !ev.MatchesType("BadInput") {
		t.Error("expected exact custom-name match")
	}
	if ev.MatchesType("badinput") {
		t.Error("custom kind matching must be case-sensitive, unlike built-ins")
	}
}

func TestErrorValueString(t *testing.T) {
	ev := NewError(MathError, "Division by zero")
	if got, want := ev.String(), "a math error: Division by zero"; got != want {
		t.Errorf("ErrorValue.String() = %q, want %q", got, want)
	}
}
