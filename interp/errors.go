package interp

import "fmt"

// UserError reports a malformed expression, an unbound symbol, a type
// mismatch in a primitive, or an arity mismatch in an application. These
// are user-visible: the diagnostic names the mistake, and evaluation of
// the current top-level form cannot continue.
type UserError struct {
	Msg string
}

func (e *UserError) Error() string { return e.Msg }

// InternalError reports a condition the interpreter itself should never
// produce: heap exhaustion after a collection, a host allocation failure,
// or an unknown tag reaching a dispatch switch. Same termination path as
// UserError, prefixed so a host can distinguish a bug report from user
// error.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal: " + e.Msg }

func userErrorf(format string, args ...interface{}) error {
	return &UserError{Msg: fmt.Sprintf(format, args...)}
}

func internalErrorf(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
