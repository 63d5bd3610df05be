// Copyright © 2024 The ELPS authors

package prose

// Error condition names.  These are stable API for programmatic error
// classification by embedders.
const (
	CondError            = "error"
	CondUnboundSymbol    = "unbound-symbol"
	CondMalformedList    = "malformed-list"
	CondArity            = "arity-error"
	CondTypeMismatch     = "type-mismatch"
	CondArithmetic       = "arithmetic-error"
	CondStackOverflow    = "stack-overflow"
	CondContextCancelled = "context-cancelled"
)

// Sentinel errors for each condition.  An *ErrorVal matches the sentinel of
// its condition with errors.Is, and Go errors wrapping a sentinel become error
// values of that condition when passed to Error.
var (
	ErrUnboundSymbol    error = &conditionError{CondUnboundSymbol}
	ErrMalformedList    error = &conditionError{CondMalformedList}
	ErrArity            error = &conditionError{CondArity}
	ErrTypeMismatch     error = &conditionError{CondTypeMismatch}
	ErrArithmetic       error = &conditionError{CondArithmetic}
	ErrStackOverflow    error = &conditionError{CondStackOverflow}
	ErrContextCancelled error = &conditionError{CondContextCancelled}
)

type conditionError struct {
	condition string
}

func (e *conditionError) Error() string {
	return e.condition
}
