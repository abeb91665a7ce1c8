package value

import (
	"fmt"
	"strings"
)

// ErrorKind is the closed taxonomy of built-in error kinds, plus an
// open Custom(string) escape hatch for user-thrown types.
type ErrorKind string

const (
	RuntimeError    ErrorKind = "RuntimeError"
	TypeError       ErrorKind = "TypeError"
	MathError       ErrorKind = "MathError"
	FileError       ErrorKind = "FileError"
	JSONError       ErrorKind = "JsonError"
	NetworkError    ErrorKind = "NetworkError"
	ValidationError ErrorKind = "ValidationError"
	CustomError     ErrorKind = "Custom"
)

// builtinKindDescriptions gives the natural-language prefixes used in
// uncaught-error messages: "a runtime error", "a file error", etc.
var builtinKindDescriptions = map[ErrorKind]string{
	RuntimeError:    "a runtime error",
	TypeError:       "a type error",
	MathError:       "a math error",
	FileError:       "a file error",
	JSONError:       "a json error",
	NetworkError:    "a network error",
	ValidationError: "a validation error",
}

// StackFrame records one call-stack entry accumulated as an error
// propagates.
type StackFrame struct {
	FunctionName string
	File         string
	Line         int
}

// ErrorValue is the runtime representation of an error: an ordinary
// value that can be stored, thrown, caught, or printed.
type ErrorValue struct {
	Kind       ErrorKind
	CustomName string // set only when Kind == CustomError
	Message    string
	Frames     []StackFrame
}

func NewError(kind ErrorKind, message string) *ErrorValue {
	return &ErrorValue{Kind: kind, Message: message}
}

func NewCustomError(typeName, message string) *ErrorValue {
	return &ErrorValue{Kind: CustomError, CustomName: typeName, Message: message}
}

func (*ErrorValue) Type() string { return "Error" }

// KindName returns the identifier used by `if error of type "T"`
// matching: the custom name for Custom errors, otherwise the built-in
// kind's canonical spelling.
func (e *ErrorValue) KindName() string {
	if e.Kind == CustomError {
		return e.CustomName
	}
	return string(e.Kind)
}

// KindDescription returns the natural-language phrase used as the
// prefix of an uncaught-error message.
func (e *ErrorValue) KindDescription() string {
	if e.Kind == CustomError {
		return fmt.Sprintf("an error of type %q", e.CustomName)
	}
	if d, ok := builtinKindDescriptions[e.Kind]; ok {
		return d
	}
	return "an error"
}

func (e *ErrorValue) String() string {
	return fmt.Sprintf("%s: %s", e.KindDescription(), e.Message)
}

// MatchesType implements the case-insensitive-on-builtins, exact-on-custom
// rule for `if error of type "T"`.
func (e *ErrorValue) MatchesType(typeName string) bool {
	if e.Kind == CustomError {
		return e.CustomName == typeName
	}
	return strings.EqualFold(string(e.Kind), typeName)
}
