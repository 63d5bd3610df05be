// Copyright © 2024 The ELPS authors

package prose_test

import (
	"errors"
	"math"
	"testing"

	"github.com/luthersystems/prose/prose"
	"github.com/stretchr/testify/assert"
)

func negate(rt *prose.Runtime, x *prose.Val) *prose.Val {
	return prose.Number(-x.Num)
}

func add(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
	return prose.Number(a.Num + b.Num)
}

func TestUnary(t *testing.T) {
	rt, _ := newRuntime(t)
	fn := prose.Unary(negate)
	assert.Equal(t, "-2", fn(rt, nums(2)).String())
	assert.Equal(t, "(-2 3 4)", fn(rt, nums(2, 3, 4)).String(), "the tail is kept")
	v := fn(rt, prose.Empty())
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrArity))
}

func TestBinary(t *testing.T) {
	rt, _ := newRuntime(t)
	fn := prose.Binary(add)
	assert.Equal(t, "6", fn(rt, nums(1, 2, 3)).String())
	assert.Equal(t, "5", fn(rt, nums(5)).String())

	v := fn(rt, prose.Empty())
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrArity))

	v = fn(rt, prose.Cons(prose.Number(1), prose.Number(2)))
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrMalformedList))
}

func TestBinaryStopsAtError(t *testing.T) {
	rt, _ := newRuntime(t)
	calls := 0
	fn := prose.Binary(func(rt *prose.Runtime, a, b *prose.Val) *prose.Val {
		calls++
		return prose.Errorf("failed")
	})
	v := fn(rt, nums(1, 2, 3))
	assert.Equal(t, prose.VError, v.Type)
	assert.Equal(t, 1, calls)
}

func TestTernary(t *testing.T) {
	rt, _ := newRuntime(t)
	fn := prose.Ternary(func(rt *prose.Runtime, a, b, c *prose.Val) *prose.Val {
		return prose.List(c, b, a)
	})
	assert.Equal(t, "(3 2 1)", fn(rt, nums(1, 2, 3, 4)).String())
	v := fn(rt, nums(1, 2))
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrArity))
}

func TestBoolean(t *testing.T) {
	rt, _ := newRuntime(t)
	id := func(rt *prose.Runtime, args *prose.Val) *prose.Val { return args.Car }
	fn := prose.Boolean(id)
	assert.Same(t, prose.Truth(), fn(rt, nums(0)))
	assert.Same(t, prose.Empty(), fn(rt, prose.List(prose.Empty())))
	v := fn(rt, prose.List(prose.Errorf("oops")))
	assert.Equal(t, prose.VError, v.Type)
}

func TestNumericAndIterable(t *testing.T) {
	rt, _ := newRuntime(t)
	count := prose.Numeric(func(rt *prose.Runtime, args *prose.Val) (float64, error) {
		n, err := prose.Len(args)
		return float64(n), err
	})
	assert.Equal(t, "3", count(rt, nums(7, 8, 9)).String())
	v := count(rt, prose.Cons(prose.Number(1), prose.Number(2)))
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrMalformedList))

	dup := prose.Iterable(func(rt *prose.Runtime, args *prose.Val) ([]*prose.Val, error) {
		return []*prose.Val{args.Car, args.Car}, nil
	})
	assert.Equal(t, "(1 1)", dup(rt, nums(1)).String())
}

func TestGoConversions(t *testing.T) {
	x, err := prose.GoFloat(prose.Number(2.5))
	assert.NoError(t, err)
	assert.Equal(t, 2.5, x)
	x, err = prose.GoFloat(prose.Empty())
	assert.NoError(t, err)
	assert.Equal(t, 0.0, x)
	x, err = prose.GoFloat(prose.Truth())
	assert.NoError(t, err)
	assert.Equal(t, 1.0, x)

	_, err = prose.GoFloat(prose.String("1"))
	assert.True(t, errors.Is(err, prose.ErrTypeMismatch))
	_, err = prose.GoFloat(prose.Symbol("x"))
	assert.True(t, errors.Is(err, prose.ErrUnboundSymbol))

	n, err := prose.GoInt(prose.Number(3.9))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, prose.MaxInt + 2} {
		_, err = prose.GoInt(prose.Number(x))
		assert.True(t, errors.Is(err, prose.ErrArithmetic), "%v", x)
	}
	n, err = prose.GoInt(prose.Number(-prose.MaxInt))
	assert.NoError(t, err)
	assert.Equal(t, -prose.MaxInt, n)

	s, err := prose.GoString(prose.String("hi"))
	assert.NoError(t, err)
	assert.Equal(t, "hi", s)
	_, err = prose.GoString(prose.Number(1))
	assert.True(t, errors.Is(err, prose.ErrTypeMismatch))
}
