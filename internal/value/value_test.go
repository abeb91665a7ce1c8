package value

import "testing"

// TestNumberString pins down printed-number formatting: integer-valued doubles print without a trailing ".0".
func TestNumberString(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want string
	}{
		{"integer-valued", Number(14), "14"},
		{"negative integer-valued", Number(-3), "-3"},
		{"zero", Number(0), "0"},
		{"fraction", Number(3.5), "3.5"},
		{"large integer-valued", Number(1000000), "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.String(); got != tt.want {
				t.Errorf("Number(%v).String() = %q, want %q", float64(tt.n), got, tt.want)
			}
		})
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"null", Null, false},
		{"zero", Number(0), false},
		{"nonzero", Number(1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty list", NewList(), false},
		{"nonempty list", NewList(Number(1)), true},
		{"empty dict", NewDict(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
	d := NewDict()
	d.Set("k", Number(1))
	if !Truthy(d) {
		t.Error("expected a non-empty dict to be truthy")
	}
}

func TestEqualScalars(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Error("expected 1 == 1")
	}
	if Equal(Number(1), Number(2)) {
		t.Error("expected 1 != 2")
	}
	if !Equal(String("a"), String("a")) {
		t.Error("expected string equality by value")
	}
	if !Equal(Null, Null) {
		t.Error("expected null == null")
	}
	if Equal(Number(1), String("1")) {
		t.Error("did not expect cross-kind equality")
	}
}

func TestEqualListsStructural(t *testing.T) {
	a := NewList(Number(1), Number(2), String("x"))
	b := NewList(Number(1), Number(2), String("x"))
	if !Equal(a, b) {
		t.Error("expected structural equality for equal-contents lists")
	}
	c := NewList(Number(1), Number(2), String("y"))
	if Equal(a, c) {
		t.Error("expected lists with differing elements to be unequal")
	}
	if Equal(a, NewList(Number(1), Number(2))) {
		t.Error("expected lists of differing length to be unequal")
	}
}

func TestEqualDictsStructural(t *testing.T) {
	a := NewDict()
	a.Set("x", Number(1))
	a.Set("y", Number(2))
	b := NewDict()
	b.Set("y", Number(2))
	b.Set("x", Number(1))
	if !Equal(a, b) {
		t.Error("expected dicts with the same key/value pairs to be equal regardless of insertion order")
	}
	c := NewDict()
	c.Set("x", Number(1))
	if Equal(a, c) {
		t.Error("expected dicts of differing size to be unequal")
	}
}

func TestLessOrdersNumbersAndStrings(t *testing.T) {
	if less, ok := Less(Number(1), Number(2)); !ok || !less {
		t.Error("expected 1 < 2")
	}
	if less, ok := Less(String("a"), String("b")); !ok || !less {
		t.Error("expected \"a\" < \"b\" lexicographically")
	}
	if _, ok := Less(Number(1), String("a")); ok {
		t.Error("did not expect cross-kind values to be ordered")
	}
	if _, ok := Less(Null, Null); ok {
		t.Error("did not expect null to be ordered")
	}
}

func TestDictInsertionOrderPreserved(t *testing.T) {
	d := NewDict()
	d.Set("b", Number(2))
	d.Set("a", Number(1))
	d.Set("c", Number(3))
	want := []string{"b", "a", "c"}
	got := d.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key order mismatch at %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDictDeleteRemovesFromOrderAndLookup(t *testing.T) {
	d := NewDict()
	d.Set("a", Number(1))
	d.Set("b", Number(2))
	d.Delete("a")
	if _, ok := d.Get("a"); ok {
		t.Error("expected deleted key to be absent")
	}
	if d.Len() != 1 {
		t.Errorf("expected length 1 after delete, got %d", d.Len())
	}
	keys := d.Keys()
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("expected remaining key order [b], got %v", keys)
	}
}

func TestListCloneIsIndependentBackingArray(t *testing.T) {
	original := NewList(Number(1), Number(2))
	clone := original.Clone()
	clone.Elements[0] = Number(99)
	if original.Elements[0] != Number(1) {
		t.Error("mutating a clone's backing slice must not affect the original")
	}
}

func TestListAndDictStringRendering(t *testing.T) {
	l := NewList(Number(1), String("x"), Bool(true))
	if got, want := l.String(), `[1, "x", true]`; got != want {
		t.Errorf("List.String() = %q, want %q", got, want)
	}
	d := NewDict()
	d.Set("k", Number(1))
	if got, want := d.String(), `{"k": 1}`; got != want {
		t.Errorf("Dict.String() = %q, want %q", got, want)
	}
}
