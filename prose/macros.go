// Copyright © 2024 The ELPS authors

package prose

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var langMacros = []*langBuiltin{
	{"if", nil, macroIf, `
		Evaluates the condition and then exactly one of the two branches.
		The empty list is false and every other value is true.`},
	{"bind", nil, macroBind, `
		Binds a symbol to an unevaluated form, evaluated again each time
		the symbol is used.  Returns the symbol.`},
	{"lambda", []string{"λ"}, macroLambda, `
		Returns an anonymous function of a parameter list and a body.
		The current values of the free symbols of the body are captured
		when the function is created.`},
	{"macro", nil, macroMacro, `
		Returns a macro of a parameter list and a body.  Parameters are
		bound to the quoted argument forms while the body computes the
		expansion, the expansion is then evaluated.`},
	{"map", nil, macroMap, `
		Applies a function to each element of a list and returns a list of
		the results.  The arguments after the function are evaluated as a
		single expression to produce the list: (map f [1 2 3]) and
		(map f range 0 3 1) are both accepted.`},
	{"let1", nil, macroLet1, `
		Binds a symbol to the value of an expression while the body is
		evaluated.  The previous binding of the symbol, or its absence, is
		restored afterwards.`},
	{"def", nil, macroDef, `
		Binds a symbol to the value of an expression.  Returns the value.`},
	{"del", nil, macroDel, `
		Removes the binding of a symbol.  Returns the empty list.`},
	{"defun", nil, macroDefun, `
		Binds a symbol to a function of a parameter list and a body.
		Returns the symbol, so ((defun f [x] ...) 1) defines and calls f.`},
	{"quote", nil, macroQuote, `
		Returns its argument unevaluated.`},
}

// DefaultMacros returns the core special forms every runtime has.
func DefaultMacros() []BuiltinDef {
	ops := make([]BuiltinDef, len(langMacros))
	for i := range langMacros {
		ops[i] = langMacros[i]
	}
	return ops
}

func macroIf(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 3)
	if err != nil {
		return Error(fmt.Errorf("if: %w", err))
	}
	cond := rt.Apply(forms[0], nil)
	if cond.Type == VError {
		return cond
	}
	if cond.IsTruthy() {
		return rt.Apply(forms[1], nil)
	}
	return rt.Apply(forms[2], nil)
}

// symbolArg returns the symbol named by form.  A list is evaluated to
// compute the symbol.
func (rt *Runtime) symbolArg(name string, form *Val) *Val {
	if form.Type == VPair {
		form = rt.Apply(form, nil)
		if form.Type == VError {
			return form
		}
	}
	if form.Type != VSymbol {
		return ErrorConditionf(CondTypeMismatch, "%s: expected a symbol, got %v", name, form.Type)
	}
	return form
}

func macroBind(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 2)
	if err != nil {
		return Error(err)
	}
	sym := rt.symbolArg("bind", forms[0])
	if sym.Type == VError {
		return sym
	}
	rt.Logger.WithField("symbol", sym.Str).Trace("bind form")
	rt.Registry.Put(sym.Str, forms[1])
	return sym
}

func macroDef(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 2)
	if err != nil {
		return Error(err)
	}
	sym := rt.symbolArg("def", forms[0])
	if sym.Type == VError {
		return sym
	}
	val := rt.reduceDefinition(sym.Str, forms[1])
	if val.Type == VError {
		return val
	}
	rt.Logger.WithField("symbol", sym.Str).Trace("def")
	rt.Registry.Put(sym.Str, val)
	return val
}

func macroDel(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 1)
	if err != nil {
		return Error(err)
	}
	sym := rt.symbolArg("del", forms[0])
	if sym.Type == VError {
		return sym
	}
	rt.Logger.WithField("symbol", sym.Str).Trace("del")
	rt.Registry.Delete(sym.Str)
	return Empty()
}

func macroDefun(rt *Runtime, args *Val) *Val {
	forms, err := Elements(args)
	if err != nil {
		return Error(err)
	}
	var doc string
	if len(forms) == 4 && forms[2].Type == VString {
		doc = forms[2].Str
		forms = []*Val{forms[0], forms[1], forms[3]}
	}
	if len(forms) != 3 {
		return ErrorConditionf(CondArity, "defun: expected 3 or 4 elements, got %d", len(forms))
	}
	sym := rt.symbolArg("defun", forms[0])
	if sym.Type == VError {
		return sym
	}
	var fun *Val
	rt.withoutCapture(sym.Str, func() {
		fun = rt.closure(VFun, forms[1], forms[2])
	})
	if fun.Type == VError {
		return fun
	}
	fun.FunData().Name = sym.Str
	fun.FunData().Doc = doc
	rt.Logger.WithField("symbol", sym.Str).Trace("defun")
	rt.Registry.Put(sym.Str, fun)
	return sym
}

func macroLet1(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 3)
	if err != nil {
		return Error(err)
	}
	sym := rt.symbolArg("let1", forms[0])
	if sym.Type == VError {
		return sym
	}
	val := rt.Apply(forms[1], nil)
	if val.Type == VError {
		return val
	}
	restore := rt.bind([]Binding{{Name: sym.Str, Value: val, Bound: true}})
	defer restore()
	return rt.Apply(forms[2], nil)
}

func macroQuote(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 1)
	if err != nil {
		return Error(err)
	}
	return Quote(forms[0])
}

func macroLambda(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 2)
	if err != nil {
		return Error(err)
	}
	return rt.closure(VFun, forms[0], forms[1])
}

func macroMacro(rt *Runtime, args *Val) *Val {
	forms, err := Take(args, 2)
	if err != nil {
		return Error(err)
	}
	return rt.closure(VMacro, forms[0], forms[1])
}

func macroMap(rt *Runtime, args *Val) *Val {
	if args.Type != VPair || args.Cdr.Type != VPair {
		return ErrorConditionf(CondArity, "map: expected a function and a list")
	}
	fn := args.Car
	src := rt.Apply(args.Cdr, nil)
	if src.Type == VError {
		return src
	}
	if src.Type != VEmpty && src.Type != VPair {
		return ErrorConditionf(CondTypeMismatch, "map: expected a list, got %v", src.Type)
	}
	var results []*Val
	err := Each(src, func(_ int, elem *Val) error {
		x := rt.Apply(fn, List(elem))
		if x.Type == VError {
			return GoError(x)
		}
		results = append(results, x)
		return nil
	})
	if err != nil {
		return Error(err)
	}
	return List(results...)
}

// reduceDefinition reduces the value of a definition of name.  Functions
// created while reducing it do not capture the previous binding of name so
// a redefined recursive function calls itself.
func (rt *Runtime) reduceDefinition(name string, form *Val) *Val {
	var val *Val
	rt.withoutCapture(name, func() {
		val = rt.Apply(form, nil)
	})
	return val
}

func (rt *Runtime) withoutCapture(name string, fn func()) {
	if rt.defining == nil {
		rt.defining = make(map[string]int)
	}
	rt.defining[name]++
	defer func() {
		rt.defining[name]--
		if rt.defining[name] == 0 {
			delete(rt.defining, name)
		}
	}()
	fn()
}

func paramNames(params *Val) ([]string, error) {
	if params.Type == VSymbol {
		return nil, fmt.Errorf("%w: parameters must be a list, got symbol %s", ErrTypeMismatch, params.Str)
	}
	vals, err := Elements(params)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(vals))
	for i, v := range vals {
		if v.Type != VSymbol {
			return nil, fmt.Errorf("%w: parameter %d is a %v, not a symbol", ErrTypeMismatch, i, v.Type)
		}
		names[i] = v.Str
	}
	return names, nil
}

// freeSymbols returns the names of the symbols mentioned in form which are
// not in bound, in order of first appearance.
func freeSymbols(form *Val, bound []string) []string {
	seen := make(map[string]bool, len(bound))
	for _, name := range bound {
		seen[name] = true
	}
	var names []string
	var walk func(v *Val)
	walk = func(v *Val) {
		for {
			switch v.Type {
			case VSymbol:
				if !seen[v.Str] {
					seen[v.Str] = true
					names = append(names, v.Str)
				}
				return
			case VPair:
				walk(v.Car)
				v = v.Cdr
			default:
				return
			}
		}
	}
	walk(form)
	return names
}

// capture returns the current bindings of the free symbols of body which
// were installed by an enclosing call or let1.  Top-level definitions are
// looked up when the closure runs.  Symbols bound to native builtins and
// names being defined are skipped.
func (rt *Runtime) capture(body *Val, params []string) []Binding {
	var bs []Binding
	for _, b := range rt.Registry.Capture(freeSymbols(body, params)) {
		if rt.locals[b.Name] == 0 || rt.defining[b.Name] > 0 {
			continue
		}
		if (b.Value.Type == VFun || b.Value.Type == VMacro) && !b.Value.FunData().IsClosure() {
			continue
		}
		bs = append(bs, b)
	}
	return bs
}

// closure returns a function or macro of params and body.
func (rt *Runtime) closure(typ VType, params *Val, body *Val) *Val {
	names, err := paramNames(params)
	if err != nil {
		return Error(err)
	}
	fd := &FunData{
		Params:   params,
		Body:     body,
		Captured: rt.capture(body, names),
	}
	if typ == VMacro {
		fd.Builtin = func(rt *Runtime, args *Val) *Val {
			return rt.expandMacro(fd, names, args)
		}
	} else {
		fd.Builtin = func(rt *Runtime, args *Val) *Val {
			return rt.callLambda(fd, names, args)
		}
	}
	if rt.Logger.IsLevelEnabled(logrus.TraceLevel) {
		captured := make([]string, len(fd.Captured))
		for i, b := range fd.Captured {
			captured[i] = b.Name
		}
		rt.Logger.WithFields(logrus.Fields{
			"params":   names,
			"captured": captured,
		}).Trace("closure")
	}
	return &Val{Type: typ, Native: fd}
}

// closureBindings pairs names with vals after the captured bindings of fd.
func closureBindings(fd *FunData, names []string, args *Val) ([]Binding, error) {
	vals, err := Elements(args)
	if err != nil {
		return nil, err
	}
	if len(vals) != len(names) {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", ErrArity, len(names), len(vals))
	}
	bs := make([]Binding, 0, len(fd.Captured)+len(names))
	bs = append(bs, fd.Captured...)
	for i, name := range names {
		bs = append(bs, Binding{Name: name, Value: vals[i], Bound: true})
	}
	return bs, nil
}

func (rt *Runtime) callLambda(fd *FunData, names []string, args *Val) *Val {
	bs, err := closureBindings(fd, names, args)
	if err != nil {
		return Error(err)
	}
	restore := rt.bind(bs)
	defer restore()
	return rt.Apply(fd.Body, nil)
}

func (rt *Runtime) expandMacro(fd *FunData, names []string, args *Val) *Val {
	forms, err := Elements(args)
	if err != nil {
		return Error(err)
	}
	quoted := make([]*Val, len(forms))
	for i := range forms {
		quoted[i] = Quote(forms[i])
	}
	bs, err := closureBindings(fd, names, List(quoted...))
	if err != nil {
		return Error(err)
	}
	expansion := func() *Val {
		restore := rt.bind(bs)
		defer restore()
		return rt.Apply(fd.Body, nil)
	}()
	if expansion.Type == VError {
		return expansion
	}
	return rt.Apply(expansion, nil)
}
