// Copyright © 2024 The ELPS authors

package prose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorVal is an implementation of error for prose error values.
type ErrorVal Val

// GoError returns an error that represents v.  If v is not a VError value
// then nil is returned.
func GoError(v *Val) error {
	if v.Type != VError {
		return nil
	}
	return (*ErrorVal)(v)
}

// Error implements the error interface.  When the error condition is not
// “error” it is printed preceding the error message.
func (e *ErrorVal) Error() string {
	msg := e.ErrorMessage()
	if e.Str == CondError || strings.Contains(msg, e.Str) {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Str, msg)
}

// Condition returns the error condition name (e.g. "unbound-symbol").
func (e *ErrorVal) Condition() string {
	return e.Str
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	if err, ok := e.Native.(error); ok {
		return err.Error()
	}
	return "unknown error"
}

// Unwrap returns the Go error the value was created from.
func (e *ErrorVal) Unwrap() error {
	err, _ := e.Native.(error)
	return err
}

// Is reports whether target is the sentinel error for the condition of e.
func (e *ErrorVal) Is(target error) bool {
	cond, ok := target.(*conditionError)
	return ok && cond.condition == e.Str
}

// Error returns an error value representing err.  The condition of the value
// is taken from the first sentinel condition err wraps, or “error” when it
// wraps none.
func Error(err error) *Val {
	var cond *conditionError
	if errors.As(err, &cond) {
		return ErrorCondition(cond.condition, err)
	}
	return ErrorCondition(CondError, err)
}

// ErrorCondition returns an error value representing err and having the
// given condition.
func ErrorCondition(condition string, err error) *Val {
	return &Val{
		Type:   VError,
		Str:    condition,
		Native: err,
	}
}

// Errorf returns an error value with a formatted message.
func Errorf(format string, v ...interface{}) *Val {
	return ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an error value with the given condition and a
// formatted message.
func ErrorConditionf(condition string, format string, v ...interface{}) *Val {
	return ErrorCondition(condition, fmt.Errorf(format, v...))
}
