// Copyright © 2024 The ELPS authors

// Package libseq provides operations on lists and strings.
package libseq

import (
	"fmt"
	"strings"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib/internal/libutil"
)

// LoadPackage adds the sequence builtins to rt
func LoadPackage(rt *prose.Runtime) *prose.Val {
	rt.AddBuiltins(libutil.Defs(builtins)...)
	return prose.Empty()
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("contains", prose.Boolean(prose.Binary(opContains)),
		`Returns true if a list has an element equal to the second
		argument, or a string contains the second argument.`, "∋"),
	libutil.FunctionDoc("countOf", prose.Binary(opCountOf),
		`Returns the number of elements of a list equal to the second
		argument, or the number of times a string occurs in a string.`),
	libutil.FunctionDoc("index", prose.Numeric(builtinIndex),
		`Returns the position of the first element of a list equal to the
		second argument, or the position of a string within a string.
		It is an error if there is none.`),
	libutil.FunctionDoc("getitem", prose.Binary(opGetItem),
		`Returns the element of a list, or the character of a string, at a
		position.  Negative positions count back from the end.`),
	libutil.FunctionDoc("slice", prose.Ternary(opSlice),
		`Returns the elements of a list, or the characters of a string,
		from a start position up to but not including a stop position.`),
	libutil.FunctionDoc("range", prose.Iterable(builtinRange),
		`Returns a list of numbers.  With one argument the list counts from
		0 up to but not including it.  With two the list counts from the
		first to the second, and a third argument gives the step.`),
	libutil.FunctionDoc("reverse", prose.Iterable(builtinReverse),
		`Returns the elements of a list in reverse order.`),
}

func sequence(v *prose.Val) (*prose.Val, error) {
	v, err := prose.GoValue(v)
	if err != nil {
		return nil, err
	}
	switch v.Type {
	case prose.VPair, prose.VEmpty, prose.VString:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: expected a list or string, got %v", prose.ErrTypeMismatch, v.Type)
	}
}

func opContains(rt *prose.Runtime, seq, x *prose.Val) *prose.Val {
	n := opCountOf(rt, seq, x)
	if n.Type == prose.VError {
		return n
	}
	return prose.Bool(n.Num > 0)
}

func opCountOf(rt *prose.Runtime, seq, x *prose.Val) *prose.Val {
	seq, err := sequence(seq)
	if err != nil {
		return prose.Error(err)
	}
	if seq.Type == prose.VString {
		sub, err := prose.GoString(x)
		if err != nil {
			return prose.Error(err)
		}
		return prose.Number(float64(strings.Count(seq.Str, sub)))
	}
	n := 0
	err = prose.Each(seq, func(_ int, v *prose.Val) error {
		if v.Equal(x) {
			n++
		}
		return nil
	})
	if err != nil {
		return prose.Error(err)
	}
	return prose.Number(float64(n))
}

func builtinIndex(rt *prose.Runtime, args *prose.Val) (float64, error) {
	vals, err := prose.Take(args, 2)
	if err != nil {
		return 0, err
	}
	seq, err := sequence(vals[0])
	if err != nil {
		return 0, err
	}
	x := vals[1]
	if seq.Type == prose.VString {
		sub, err := prose.GoString(x)
		if err != nil {
			return 0, err
		}
		i := strings.Index(seq.Str, sub)
		if i < 0 {
			return 0, fmt.Errorf("index: %v not found", x)
		}
		return float64(len([]rune(seq.Str[:i]))), nil
	}
	pos := -1
	err = prose.Each(seq, func(i int, v *prose.Val) error {
		if pos < 0 && v.Equal(x) {
			pos = i
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, fmt.Errorf("index: %v not found", x)
	}
	return float64(pos), nil
}

func opGetItem(rt *prose.Runtime, seq, i *prose.Val) *prose.Val {
	seq, err := sequence(seq)
	if err != nil {
		return prose.Error(err)
	}
	n, err := prose.GoInt(i)
	if err != nil {
		return prose.Error(err)
	}
	if seq.Type == prose.VString {
		runes := []rune(seq.Str)
		j := n
		if j < 0 {
			j += len(runes)
		}
		if j < 0 || j >= len(runes) {
			return prose.ErrorConditionf(prose.CondMalformedList, "getitem: index %d out of range", n)
		}
		return prose.String(string(runes[j]))
	}
	v, err := prose.Index(seq, n)
	if err != nil {
		return prose.Error(err)
	}
	return v
}

func opSlice(rt *prose.Runtime, seq, start, stop *prose.Val) *prose.Val {
	seq, err := sequence(seq)
	if err != nil {
		return prose.Error(err)
	}
	i, err := prose.GoInt(start)
	if err != nil {
		return prose.Error(err)
	}
	j, err := prose.GoInt(stop)
	if err != nil {
		return prose.Error(err)
	}
	if seq.Type == prose.VString {
		runes := []rune(seq.Str)
		vals := make([]*prose.Val, len(runes))
		for k := range runes {
			vals[k] = prose.String(string(runes[k]))
		}
		sub, err := prose.Slice(prose.List(vals...), i, j)
		if err != nil {
			return prose.Error(err)
		}
		var buf strings.Builder
		for ; sub.Type == prose.VPair; sub = sub.Cdr {
			buf.WriteString(sub.Car.Str)
		}
		return prose.String(buf.String())
	}
	sub, err := prose.Slice(seq, i, j)
	if err != nil {
		return prose.Error(err)
	}
	return sub
}

// MaxRangeLen bounds the number of elements range produces.
const MaxRangeLen = 1 << 24

func rangeLen(start, stop, step int) int {
	if step < 0 {
		start, stop, step = -start, -stop, -step
	}
	if stop <= start {
		return 0
	}
	return (stop - start + step - 1) / step
}

func builtinRange(rt *prose.Runtime, args *prose.Val) ([]*prose.Val, error) {
	vals, err := prose.Elements(args)
	if err != nil {
		return nil, err
	}
	bounds := make([]int, len(vals))
	for i := range vals {
		bounds[i], err = prose.GoInt(vals[i])
		if err != nil {
			return nil, err
		}
	}
	start, stop, step := 0, 0, 1
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	default:
		return nil, fmt.Errorf("%w: range: expected 1 to 3 arguments, got %d", prose.ErrArity, len(bounds))
	}
	if step == 0 {
		return nil, fmt.Errorf("%w: range: step must not be zero", prose.ErrArithmetic)
	}
	if n := rangeLen(start, stop, step); n > MaxRangeLen {
		return nil, fmt.Errorf("%w: range: %d elements exceeds the limit of %d", prose.ErrArithmetic, n, MaxRangeLen)
	}
	var nums []*prose.Val
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		nums = append(nums, prose.Number(float64(i)))
	}
	return nums, nil
}

func builtinReverse(rt *prose.Runtime, args *prose.Val) ([]*prose.Val, error) {
	vals, err := prose.Take(args, 1)
	if err != nil {
		return nil, err
	}
	lis, err := prose.GoValue(vals[0])
	if err != nil {
		return nil, err
	}
	elems, err := prose.Elements(lis)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	return elems, nil
}
