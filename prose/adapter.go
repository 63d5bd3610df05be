// Copyright © 2024 The ELPS authors

package prose

import (
	"fmt"
	"math"
)

// Builtin is the native implementation of a function or macro.  Functions
// receive their argument list reduced, macros receive it as written.
type Builtin func(rt *Runtime, args *Val) *Val

// BuiltinDef describes a builtin to be registered with a Runtime.
type BuiltinDef interface {
	Name() string
	Aliases() []string
	Docstring() string
	Eval(rt *Runtime, args *Val) *Val
}

// UnaryOp is a native operation on a single value.
type UnaryOp func(rt *Runtime, x *Val) *Val

// BinaryOp is a native operation on two values.
type BinaryOp func(rt *Runtime, a, b *Val) *Val

// TernaryOp is a native operation on three values.
type TernaryOp func(rt *Runtime, a, b, c *Val) *Val

// Unary returns a Builtin applying op to the head of its argument list.  The
// tail of the list is kept after the result, unless it is empty in which case
// the result is returned on its own.
func Unary(op UnaryOp) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		if args.Type != VPair {
			return ErrorConditionf(CondArity, "expected an argument")
		}
		x := op(rt, args.Car)
		if x.Type == VError || args.Cdr.Type == VEmpty {
			return x
		}
		return Cons(x, args.Cdr)
	}
}

// Binary returns a Builtin folding op over its argument list from the left.
// A single argument is returned unchanged.
func Binary(op BinaryOp) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		if args.Type != VPair {
			return ErrorConditionf(CondArity, "expected at least one argument")
		}
		acc := args.Car
		lis := args.Cdr
		for ; lis.Type == VPair; lis = lis.Cdr {
			acc = op(rt, acc, lis.Car)
			if acc.Type == VError {
				return acc
			}
		}
		if lis.Type != VEmpty {
			return ErrorConditionf(CondMalformedList, "argument list ends in %v", lis.Type)
		}
		return acc
	}
}

// Ternary returns a Builtin applying op to the first three elements of its
// argument list.
func Ternary(op TernaryOp) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		vals, err := Take(args, 3)
		if err != nil {
			return Error(err)
		}
		return op(rt, vals[0], vals[1], vals[2])
	}
}

// Boolean returns a Builtin converting the result of fn to Truth or the
// EmptyList according to its truthiness.
func Boolean(fn Builtin) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		x := fn(rt, args)
		if x.Type == VError {
			return x
		}
		return Bool(x.IsTruthy())
	}
}

// Numeric returns a Builtin returning the native result of fn as a number.
func Numeric(fn func(rt *Runtime, args *Val) (float64, error)) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		x, err := fn(rt, args)
		if err != nil {
			return Error(err)
		}
		return Number(x)
	}
}

// Iterable returns a Builtin returning the native result of fn as a new
// proper list.
func Iterable(fn func(rt *Runtime, args *Val) ([]*Val, error)) Builtin {
	return func(rt *Runtime, args *Val) *Val {
		vals, err := fn(rt, args)
		if err != nil {
			return Error(err)
		}
		return List(vals...)
	}
}

// GoValue converts a reduced argument into a value native code can work with.
// An unbound symbol where a value is needed is an unbound-symbol error.
func GoValue(v *Val) (*Val, error) {
	if v.Type == VSymbol {
		return nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, v.Str)
	}
	if v.Type == VError {
		return nil, GoError(v)
	}
	return v, nil
}

// GoFloat returns the numeric value of v.  The EmptyList counts as 0 and
// Truth as 1.
func GoFloat(v *Val) (float64, error) {
	v, err := GoValue(v)
	if err != nil {
		return 0, err
	}
	switch v.Type {
	case VNumber:
		return v.Num, nil
	case VEmpty:
		return 0, nil
	case VTruth:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: expected a number, got %v", ErrTypeMismatch, v.Type)
	}
}

// MaxInt is the magnitude bound of the numbers GoInt converts.  Every
// integer up to it is exactly representable as a float64.
const MaxInt = 1 << 53

// GoInt returns the numeric value of v truncated to an int.  NaN and values
// beyond MaxInt in magnitude are arithmetic errors.
func GoInt(v *Val) (int, error) {
	x, err := GoFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || x > MaxInt || x < -MaxInt {
		return 0, fmt.Errorf("%w: %v is not a representable integer", ErrArithmetic, v)
	}
	return int(x), nil
}

// GoString returns the text of the string v.
func GoString(v *Val) (string, error) {
	v, err := GoValue(v)
	if err != nil {
		return "", err
	}
	if v.Type != VString {
		return "", fmt.Errorf("%w: expected a string, got %v", ErrTypeMismatch, v.Type)
	}
	return v.Str, nil
}
