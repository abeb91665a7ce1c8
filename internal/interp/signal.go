package interp

import "github.com/AlhaqGH/pohlang/internal/value"

// flowKind distinguishes the non-local exits a statement can produce
// beyond falling through to the next statement.
type flowKind int

const (
	flowNone flowKind = iota
	flowReturn
	flowBreak
	flowContinue
)

// flow carries a non-local exit up through evalStatement/evalBlock. A
// zero flow (flowNone) means "keep executing the next statement."
type flow struct {
	kind  flowKind
	value value.Value // set only for flowReturn; nil means an implicit Return
}

// thrown wraps a *value.ErrorValue as a Go error so it can propagate
// through ordinary error returns from evalExpression/evalStatement,
// exactly like any other Go function failure, until a try/catch frame
// or the top of the program handles it.
type thrown struct{ err *value.ErrorValue }

func (t *thrown) Error() string { return t.err.String() }

func throwValue(err *value.ErrorValue) error { return &thrown{err: err} }

// asThrown extracts the carried error value, if err is a thrown.
func asThrown(err error) (*value.ErrorValue, bool) {
	t, ok := err.(*thrown)
	if !ok {
		return nil, false
	}
	return t.err, true
}
