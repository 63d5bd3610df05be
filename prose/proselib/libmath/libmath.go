// Copyright © 2024 The ELPS authors

// Package libmath provides the arithmetic and comparison operators.  The
// EmptyList counts as 0 and Truth as 1 wherever a number is expected.
package libmath

import (
	"fmt"
	"math"
	"strings"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib/internal/libutil"
)

// LoadPackage adds the math builtins to rt
func LoadPackage(rt *prose.Runtime) *prose.Val {
	rt.AddBuiltins(libutil.Defs(builtins)...)
	return prose.Empty()
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("+", prose.Binary(opAdd),
		`Returns the sum of its arguments.  Strings are concatenated.`),
	libutil.FunctionDoc("-", prose.Binary(opSub),
		`Subtracts each argument after the first from the first.`, "−"),
	libutil.FunctionDoc("*", prose.Binary(opMul),
		`Returns the product of its arguments.  A string multiplied by a
		number is repeated that many times.`, "×", "⋅"),
	libutil.FunctionDoc("/", prose.Binary(opDiv),
		`Divides the first argument by each argument after it.`, "÷", "∕"),
	libutil.FunctionDoc("//", prose.Binary(opFloorDiv),
		`Divides the first argument by each argument after it, rounding
		each quotient toward negative infinity.`),
	libutil.FunctionDoc("%", prose.Binary(opMod),
		`Returns the remainder of dividing the first argument by the
		second.  The result has the sign of the divisor.`),
	libutil.FunctionDoc("**", prose.Binary(opPow),
		`Raises the first argument to the power of the second.`),
	libutil.FunctionDoc("=", prose.Boolean(prose.Binary(opEq)),
		`Returns true if its arguments are equal.`),
	libutil.FunctionDoc("<", prose.Boolean(prose.Binary(compareOp(func(c int) bool { return c < 0 }))),
		`Returns true if the first argument is less than the second.
		Numbers compare numerically and strings lexically.`),
	libutil.FunctionDoc("<=", prose.Boolean(prose.Binary(compareOp(func(c int) bool { return c <= 0 }))),
		`Returns true if the first argument is less than or equal to the
		second.`, "≤"),
	libutil.FunctionDoc(">", prose.Boolean(prose.Binary(compareOp(func(c int) bool { return c > 0 }))),
		`Returns true if the first argument is greater than the second.`),
	libutil.FunctionDoc(">=", prose.Boolean(prose.Binary(compareOp(func(c int) bool { return c >= 0 }))),
		`Returns true if the first argument is greater than or equal to the
		second.`, "≥"),
	libutil.FunctionDoc("!", prose.Boolean(prose.Unary(opNot)),
		`Returns true if its argument is the empty list.`, "¬"),
	libutil.FunctionDoc("is", prose.Boolean(prose.Binary(opIs)),
		`Returns true if its arguments are the same value.  Symbols with
		the same name are the same value.`, "≡"),
	libutil.FunctionDoc("abs", prose.Unary(opAbs),
		`Returns the absolute value of a number.`),
}

func numbers(a, b *prose.Val) (float64, float64, *prose.Val) {
	x, err := prose.GoFloat(a)
	if err != nil {
		return 0, 0, prose.Error(err)
	}
	y, err := prose.GoFloat(b)
	if err != nil {
		return 0, 0, prose.Error(err)
	}
	return x, y, nil
}

func values(a, b *prose.Val) (*prose.Val, *prose.Val, *prose.Val) {
	a, err := prose.GoValue(a)
	if err != nil {
		return nil, nil, prose.Error(err)
	}
	b, err = prose.GoValue(b)
	if err != nil {
		return nil, nil, prose.Error(err)
	}
	return a, b, nil
}

func opAdd(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	a, b, lerr := values(a, b)
	if lerr != nil {
		return lerr
	}
	if a.Type == prose.VString || b.Type == prose.VString {
		switch {
		case a.Type == prose.VString && b.Type == prose.VString:
			return prose.String(a.Str + b.Str)
		case b.Type == prose.VEmpty:
			return a
		case a.Type == prose.VEmpty:
			return b
		}
		return prose.ErrorConditionf(prose.CondTypeMismatch, "+: cannot add %v and %v", a.Type, b.Type)
	}
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	return prose.Number(x + y)
}

func opSub(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	return prose.Number(x - y)
}

// MaxStringLen bounds the length in bytes of a string built by repetition.
const MaxStringLen = 1 << 24

func opMul(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	a, b, lerr := values(a, b)
	if lerr != nil {
		return lerr
	}
	if b.Type == prose.VString && a.Type != prose.VString {
		a, b = b, a
	}
	if a.Type == prose.VString {
		n, err := prose.GoInt(b)
		if err != nil {
			return prose.Error(err)
		}
		if n < 0 {
			n = 0
		}
		if len(a.Str) > 0 && n > MaxStringLen/len(a.Str) {
			return prose.ErrorConditionf(prose.CondArithmetic, "*: repeated string longer than %d bytes", MaxStringLen)
		}
		return prose.String(strings.Repeat(a.Str, n))
	}
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	return prose.Number(x * y)
}

func divisor(name string, y float64) *prose.Val {
	if y == 0 {
		return prose.ErrorConditionf(prose.CondArithmetic, "%s: division by zero", name)
	}
	return nil
}

func opDiv(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	if lerr := divisor("/", y); lerr != nil {
		return lerr
	}
	return prose.Number(x / y)
}

func opFloorDiv(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	if lerr := divisor("//", y); lerr != nil {
		return lerr
	}
	return prose.Number(math.Floor(x / y))
}

func opMod(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	if lerr := divisor("%", y); lerr != nil {
		return lerr
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return prose.Number(r)
}

func opPow(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	x, y, lerr := numbers(a, b)
	if lerr != nil {
		return lerr
	}
	return prose.Number(math.Pow(x, y))
}

func isNumeric(v *prose.Val) bool {
	return v.Type == prose.VNumber || v.Type == prose.VTruth
}

func opEq(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	a, b, lerr := values(a, b)
	if lerr != nil {
		return lerr
	}
	if isNumeric(a) && isNumeric(b) {
		x, y, lerr := numbers(a, b)
		if lerr != nil {
			return lerr
		}
		return prose.Bool(x == y)
	}
	return prose.Bool(a.Equal(b))
}

func compareOp(test func(c int) bool) prose.BinaryOp {
	return func(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
		c, err := compare(a, b)
		if err != nil {
			return prose.Error(err)
		}
		return prose.Bool(test(c))
	}
}

func compare(a, b *prose.Val) (int, error) {
	a, err := prose.GoValue(a)
	if err != nil {
		return 0, err
	}
	b, err = prose.GoValue(b)
	if err != nil {
		return 0, err
	}
	if a.Type == prose.VString && b.Type == prose.VString {
		return strings.Compare(a.Str, b.Str), nil
	}
	x, err := prose.GoFloat(a)
	if err != nil {
		return 0, fmt.Errorf("cannot compare %v and %v: %w", a.Type, b.Type, err)
	}
	y, err := prose.GoFloat(b)
	if err != nil {
		return 0, fmt.Errorf("cannot compare %v and %v: %w", a.Type, b.Type, err)
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	default:
		return 0, nil
	}
}

func opNot(rt *prose.Runtime, x *prose.Val) *prose.Val {
	x, err := prose.GoValue(x)
	if err != nil {
		return prose.Error(err)
	}
	return prose.Bool(!x.IsTruthy())
}

func opIs(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	if a.Type == prose.VSymbol && b.Type == prose.VSymbol {
		return prose.Bool(a.Str == b.Str)
	}
	return prose.Bool(a == b)
}

func opAbs(rt *prose.Runtime, x *prose.Val) *prose.Val {
	f, err := prose.GoFloat(x)
	if err != nil {
		return prose.Error(err)
	}
	return prose.Number(math.Abs(f))
}
