// Copyright © 2024 The ELPS authors

package prose

import (
	"bufio"
	"fmt"
	"unicode/utf8"
)

type langBuiltin struct {
	name    string
	aliases []string
	fun     Builtin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Aliases() []string {
	return fun.aliases
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

func (fun *langBuiltin) Eval(rt *Runtime, args *Val) *Val {
	return fun.fun(rt, args)
}

var langBuiltins = []*langBuiltin{
	{"list", nil, builtinList, `
		Returns its arguments as a list.`},
	{"car", nil, builtinCar, `
		Returns the first element of a list.  The car of the empty list is
		the empty list.`},
	{"cdr", nil, builtinCdr, `
		Returns a list of every element of a list except the first.  The
		cdr of the empty list is the empty list.`},
	{"cons", nil, builtinCons, `
		Returns a new pair of its two arguments.  When the second argument
		is a list the result is that list with the first argument added to
		the front.`},
	{"eval", nil, builtinEval, `
		Evaluates a value.  Used to evaluate a quoted expression:
		(eval [+ 1 2]) is 3.`},
	{"print", []string{"println"}, builtinPrint, `
		Writes each argument on its own line to the standard output of the
		runtime.  Strings are written without quotes.  Returns the empty
		list.`},
	{"len", nil, Numeric(builtinLen), `
		Returns the number of elements in a list or characters in a
		string.`},
	{"doc", nil, builtinDoc, `
		Returns the documentation of a function or macro as a string.`},
}

// DefaultBuiltins returns the core builtin functions every runtime has.
func DefaultBuiltins() []BuiltinDef {
	ops := make([]BuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	return ops
}

func builtinList(rt *Runtime, args *Val) *Val {
	return args
}

func listArg(args *Val) (*Val, *Val) {
	vals, err := Take(args, 1)
	if err != nil {
		return nil, Error(err)
	}
	lis, err := GoValue(vals[0])
	if err != nil {
		return nil, Error(err)
	}
	if lis.Type != VPair && lis.Type != VEmpty {
		return nil, ErrorConditionf(CondTypeMismatch, "expected a list, got %v", lis.Type)
	}
	return lis, nil
}

func builtinCar(rt *Runtime, args *Val) *Val {
	lis, lerr := listArg(args)
	if lerr != nil {
		return lerr
	}
	if lis.Type == VEmpty {
		return lis
	}
	return lis.Car
}

func builtinCdr(rt *Runtime, args *Val) *Val {
	lis, lerr := listArg(args)
	if lerr != nil {
		return lerr
	}
	if lis.Type == VEmpty {
		return lis
	}
	return lis.Cdr
}

func builtinCons(rt *Runtime, args *Val) *Val {
	vals, err := Take(args, 2)
	if err != nil {
		return Error(err)
	}
	return Cons(vals[0], vals[1])
}

func builtinEval(rt *Runtime, args *Val) *Val {
	vals, err := Take(args, 1)
	if err != nil {
		return Error(err)
	}
	return vals[0]
}

func builtinDoc(rt *Runtime, args *Val) *Val {
	vals, err := Take(args, 1)
	if err != nil {
		return Error(err)
	}
	fun := vals[0]
	if fun.Type != VFun && fun.Type != VMacro {
		return ErrorConditionf(CondTypeMismatch, "doc: expected a function, got %v", fun.Type)
	}
	return String(fun.FunData().Doc)
}

func builtinPrint(rt *Runtime, args *Val) *Val {
	w := bufio.NewWriter(rt.Stdout)
	err := Each(args, func(_ int, v *Val) error {
		_, err := fmt.Fprintln(w, Display(v))
		return err
	})
	if err != nil {
		return Error(err)
	}
	if err := w.Flush(); err != nil {
		return Error(err)
	}
	return Empty()
}

func builtinLen(rt *Runtime, args *Val) (float64, error) {
	vals, err := Take(args, 1)
	if err != nil {
		return 0, err
	}
	v, err := GoValue(vals[0])
	if err != nil {
		return 0, err
	}
	switch v.Type {
	case VString:
		return float64(utf8.RuneCountInString(v.Str)), nil
	case VPair, VEmpty:
		n, err := Len(v)
		return float64(n), err
	default:
		return 0, fmt.Errorf("%w: len: expected a list or string, got %v", ErrTypeMismatch, v.Type)
	}
}

// Display returns the text print writes for v.  Strings display as their
// contents and every other value as its rendering.
func Display(v *Val) string {
	if v.Type == VString {
		return v.Str
	}
	return v.String()
}
