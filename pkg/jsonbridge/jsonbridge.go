// Package jsonbridge is a concrete Host Callback Interface collaborator
// that teaches neither internal/interp nor internal/bytecode
// anything about JSON: it registers two phrasal built-ins, `parse json`
// and `set field in json`, against whichever backend's RegisterHost is
// handed to it, implementing them with github.com/tidwall/gjson and
// github.com/tidwall/sjson rather than a hand-rolled JSON walker.
package jsonbridge

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseArity is the argument count of the `parse json` host built-in:
// one string of raw JSON text.
const ParseArity = 1

// SetFieldArity is the argument count of the `set field in json` host
// built-in: field path, new value, and the JSON document string.
const SetFieldArity = 3

// Register attaches both built-ins to register, the shape shared by
// internal/interp.Interpreter.RegisterHost and
// internal/bytecode.VM.RegisterHost once their HostFunction parameter
// is converted to the common func([]value.Value) (value.Value,
// *value.ErrorValue) shape.
func Register(register func(name string, arity int, fn func([]value.Value) (value.Value, *value.ErrorValue))) {
	register("parse json", ParseArity, ParseJSON)
	register("set field in json", SetFieldArity, SetFieldInJSON)
}

// ParseJSON implements `parse json J`: decodes the JSON text J into a
// PohLang Dictionary/List/scalar value tree via gjson, so callers can
// then index into it with ordinary `in`/index expressions.
func ParseJSON(args []value.Value) (value.Value, *value.ErrorValue) {
	text, ok := args[0].(value.String)
	if !ok {
		return nil, value.NewError(value.TypeError, "parse json requires a string argument")
	}
	if !gjson.Valid(string(text)) {
		return nil, value.NewError(value.JSONError, "invalid JSON document")
	}
	return fromGJSON(gjson.Parse(string(text))), nil
}

// SetFieldInJSON implements `set field "path" to value in json J`:
// returns a new JSON string with path set to value, leaving the
// caller's original document string untouched (PohLang values are
// persistent).
func SetFieldInJSON(args []value.Value) (value.Value, *value.ErrorValue) {
	path, ok := args[0].(value.String)
	if !ok {
		return nil, value.NewError(value.TypeError, "set field in json requires a string field path")
	}
	doc, ok := args[2].(value.String)
	if !ok {
		return nil, value.NewError(value.TypeError, "set field in json requires a string json document")
	}
	out, err := sjson.Set(string(doc), string(path), toNative(args[1]))
	if err != nil {
		return nil, value.NewError(value.JSONError, fmt.Sprintf("set field in json: %s", err))
	}
	return value.String(out), nil
}

func fromGJSON(r gjson.Result) value.Value {
	switch {
	case r.IsArray():
		elems := r.Array()
		out := make([]value.Value, len(elems))
		for i, el := range elems {
			out[i] = fromGJSON(el)
		}
		return value.NewList(out...)
	case r.IsObject():
		d := value.NewDict()
		r.ForEach(func(key, val gjson.Result) bool {
			d.Set(key.String(), fromGJSON(val))
			return true
		})
		return d
	case r.Type == gjson.String:
		return value.String(r.String())
	case r.Type == gjson.Number:
		return value.Number(r.Num)
	case r.Type == gjson.True, r.Type == gjson.False:
		return value.Bool(r.Bool())
	default:
		return value.Null
	}
}

func toNative(v value.Value) any {
	switch t := v.(type) {
	case value.Number:
		return float64(t)
	case value.String:
		return string(t)
	case value.Bool:
		return bool(t)
	case *value.List:
		out := make([]any, len(t.Elements))
		for i, el := range t.Elements {
			out[i] = toNative(el)
		}
		return out
	case *value.Dict:
		out := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			el, _ := t.Get(k)
			out[k] = toNative(el)
		}
		return out
	default:
		return nil
	}
}
