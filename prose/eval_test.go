// Copyright © 2024 The ELPS authors

package prose_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prosetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, config ...prose.Config) (*prose.Runtime, *bytes.Buffer) {
	var stdout bytes.Buffer
	return prosetest.NewRuntime(t, &stdout, config...), &stdout
}

func eval(t *testing.T, rt *prose.Runtime, source string) *prose.Val {
	t.Helper()
	return rt.LoadString("test", source)
}

func TestSelfEvaluation(t *testing.T) {
	rt, _ := newRuntime(t)
	for _, v := range []*prose.Val{
		prose.Number(5),
		prose.String("text"),
		prose.Truth(),
		prose.Empty(),
	} {
		assert.Same(t, v, rt.Apply(v, nil), v.String())
	}
	assert.Same(t, prose.Empty(), rt.Apply(prose.Empty(), prose.Empty()))
}

func TestQuoteOneShot(t *testing.T) {
	rt, _ := newRuntime(t)
	form := prose.List(prose.Symbol("+"), prose.Number(1), prose.Number(2))
	q := prose.Quote(form)
	require.True(t, q.Quoted)

	once := rt.Apply(q, nil)
	assert.False(t, once.Quoted)
	assert.Equal(t, "(+ 1 2)", once.String())
	assert.True(t, q.Quoted, "quoting does not modify shared values")
	assert.False(t, form.Quoted)

	twice := rt.Apply(once, nil)
	assert.Equal(t, "3", twice.String())
}

func TestQuotedListHeads(t *testing.T) {
	rt, _ := newRuntime(t)
	for _, head := range []*prose.Val{prose.Symbol("+"), prose.Symbol("unbound")} {
		form := prose.List(head, prose.Number(1), prose.Number(2))
		q := prose.Quote(form)
		assert.True(t, q.Quoted)
		assert.False(t, q.Car.Quoted, "symbols carry no flag")
		once := rt.Apply(q, prose.List(prose.Number(3)))
		assert.Equal(t, form.String(), once.String(), "a quoted list is returned unreduced whatever its head")
		assert.False(t, once.Quoted)
	}
}

func TestRepairFallback(t *testing.T) {
	rt, _ := newRuntime(t)
	f := prose.List(prose.Symbol("f"))

	v := rt.Apply(f, prose.Number(1))
	assert.Equal(t, "(pair f . 1)", v.String())

	v = rt.Apply(f, prose.List(prose.Number(1), prose.Number(2)))
	assert.Equal(t, "(f 1 2)", v.String())

	v = rt.Apply(f, prose.Empty())
	assert.Equal(t, "f", v.String())
}

func TestRepairFunctionHead(t *testing.T) {
	rt, _ := newRuntime(t)
	lerr := eval(t, rt, "(def self (lambda [] self))")
	require.NotEqual(t, prose.VError, lerr.Type, lerr.String())

	v := rt.Apply(prose.List(prose.Symbol("self")), prose.List(prose.Number(1), prose.Number(2)))
	assert.Equal(t, "(self 1 2)", v.String())
}

func TestRepairDataHead(t *testing.T) {
	rt, _ := newRuntime(t)
	data := prose.List(prose.Number(1), prose.Number(2))
	v := rt.Apply(data, prose.List(prose.Number(3)))
	assert.Equal(t, "((1 2) 3)", v.String())

	v = eval(t, rt, "((1 2) 3)")
	assert.Equal(t, "((1 2) 3)", v.String())
}

func TestCurriedApplication(t *testing.T) {
	rt, _ := newRuntime(t)
	lerr := eval(t, rt, "(defun adder [n] (lambda [x] (+ x n)))")
	require.NotEqual(t, prose.VError, lerr.Type, lerr.String())

	partial := prose.List(prose.Symbol("adder"), prose.Number(1))
	v := rt.Apply(partial, prose.List(prose.Number(10)))
	assert.Equal(t, "11", v.String())

	assert.Equal(t, "11", eval(t, rt, "((adder 1) 10)").String())
}

func TestUnboundSymbol(t *testing.T) {
	rt, _ := newRuntime(t)
	v := rt.Eval(prose.Symbol("nope"))
	require.Equal(t, prose.VError, v.Type)
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrUnboundSymbol))

	v = eval(t, rt, "(+ nope 1)")
	require.Equal(t, prose.VError, v.Type)
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrUnboundSymbol))

	// An unbound symbol nested in a form is a placeholder, not an error.
	v = eval(t, rt, "(quote nope)")
	assert.Equal(t, "nope", v.String())
}

func TestMaxDepth(t *testing.T) {
	rt, _ := newRuntime(t, prose.WithMaxDepth(200))
	lerr := eval(t, rt, "(defun forever [n] (forever n))")
	require.NotEqual(t, prose.VError, lerr.Type, lerr.String())

	v := eval(t, rt, "(forever 1)")
	require.Equal(t, prose.VError, v.Type)
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrStackOverflow))
	assert.Equal(t, 0, rt.Depth())
	assert.False(t, rt.Registry.Bound("n"), "parameter bindings are restored")
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rt, _ := newRuntime(t, prose.WithContext(ctx))
	assert.Equal(t, "3", eval(t, rt, "(+ 1 2)").String())

	cancel()
	v := eval(t, rt, "(+ 1 2)")
	require.Equal(t, prose.VError, v.Type)
	assert.True(t, errors.Is(prose.GoError(v), prose.ErrContextCancelled))
	assert.True(t, errors.Is(prose.GoError(v), context.Canceled))
}

func TestPanicRecovered(t *testing.T) {
	rt, _ := newRuntime(t)
	rt.Registry.Put("boom", prose.Fun("boom", func(rt *prose.Runtime, args *prose.Val) *prose.Val {
		panic("kaboom")
	}))
	v := eval(t, rt, "(let1 x 1 (boom))")
	require.Equal(t, prose.VError, v.Type)
	assert.Contains(t, v.String(), "kaboom")
	assert.False(t, rt.Registry.Bound("x"), "bindings are restored after a panic")
}

func TestNativeNilResult(t *testing.T) {
	rt, _ := newRuntime(t)
	rt.Registry.Put("nothing", prose.Fun("nothing", func(rt *prose.Runtime, args *prose.Val) *prose.Val {
		return nil
	}))
	v := eval(t, rt, "(nothing)")
	assert.Equal(t, prose.VError, v.Type)
}

func TestForce(t *testing.T) {
	rt, _ := newRuntime(t)
	args := prose.List(
		prose.List(prose.Symbol("+"), prose.Number(1), prose.Number(2)),
		prose.Quote(prose.List(prose.Number(4))),
		prose.Symbol("unbound"),
	)
	v := rt.Force(args)
	assert.Equal(t, "(3 (4) unbound)", v.String())
	assert.Equal(t, "((+ 1 2) '(4) unbound)", args.String(), "the argument chain is not modified")
}

func TestMacroGetsUnreducedArguments(t *testing.T) {
	rt, _ := newRuntime(t)
	var got *prose.Val
	rt.Registry.Put("capture", prose.Macro("capture", func(rt *prose.Runtime, args *prose.Val) *prose.Val {
		got = args
		return prose.Empty()
	}))
	eval(t, rt, "(capture (+ 1 2) x)")
	require.NotNil(t, got)
	assert.Equal(t, "((+ 1 2) x)", got.String())
}
