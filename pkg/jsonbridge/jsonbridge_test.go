package jsonbridge

import (
	"testing"

	"github.com/AlhaqGH/pohlang/internal/value"
)

func TestParseJSONObjectAndArray(t *testing.T) {
	v, err := ParseJSON([]value.Value{value.String(`{"name":"Ada","scores":[1,2,3],"active":true}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := v.(*value.Dict)
	if !ok {
		t.Fatalf("expected *value.Dict, got %T", v)
	}
	name, ok := d.Get("name")
	if !ok || name != value.String("Ada") {
		t.Fatalf("expected name=Ada, got %v (ok=%v)", name, ok)
	}
	scores, ok := d.Get("scores")
	if !ok {
		t.Fatal("expected a scores key")
	}
	list, ok := scores.(*value.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected a 3-element list, got %#v", scores)
	}
	active, ok := d.Get("active")
	if !ok || active != value.Bool(true) {
		t.Fatalf("expected active=true, got %v", active)
	}
}

func TestParseJSONInvalidDocument(t *testing.T) {
	_, err := ParseJSON([]value.Value{value.String("{not valid json")})
	if err == nil {
		t.Fatal("expected a JsonError for invalid JSON text")
	}
	if err.Kind != value.JSONError {
		t.Fatalf("expected JsonError kind, got %s", err.Kind)
	}
}

func TestParseJSONRequiresString(t *testing.T) {
	_, err := ParseJSON([]value.Value{value.Number(1)})
	if err == nil || err.Kind != value.TypeError {
		t.Fatalf("expected a TypeError for a non-string argument, got %v", err)
	}
}

func TestSetFieldInJSON(t *testing.T) {
	out, err := SetFieldInJSON([]value.Value{
		value.String("name"),
		value.String("Grace"),
		value.String(`{"name":"Ada"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := out.(value.String)
	if !ok {
		t.Fatalf("expected value.String, got %T", out)
	}
	roundTrip, perr := ParseJSON([]value.Value{got})
	if perr != nil {
		t.Fatalf("result was not valid JSON: %v", perr)
	}
	name, _ := roundTrip.(*value.Dict).Get("name")
	if name != value.String("Grace") {
		t.Fatalf("expected updated name=Grace, got %v", name)
	}
}

func TestRegisterAttachesBothBuiltins(t *testing.T) {
	registered := map[string]int{}
	Register(func(name string, arity int, fn func([]value.Value) (value.Value, *value.ErrorValue)) {
		registered[name] = arity
	})
	if registered["parse json"] != ParseArity {
		t.Errorf("expected \"parse json\" registered with arity %d, got %d", ParseArity, registered["parse json"])
	}
	if registered["set field in json"] != SetFieldArity {
		t.Errorf("expected \"set field in json\" registered with arity %d, got %d", SetFieldArity, registered["set field in json"])
	}
}
