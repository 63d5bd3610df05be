// Copyright © 2024 The ELPS authors

package prose

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Eval reduces the top-level form v.  A form which is a symbol without a
// binding produces an unbound-symbol error.  Panics raised by native code
// are recovered and returned as error values.
func (rt *Runtime) Eval(v *Val) (result *Val) {
	defer func() {
		if r := recover(); r != nil {
			result = Errorf("panic during evaluation: %v", r)
		}
	}()
	rt.Logger.WithField("form", v.String()).Debug("eval")
	if v.Type == VSymbol && !rt.Registry.Bound(v.Str) {
		return ErrorConditionf(CondUnboundSymbol, "unbound symbol: %s", v.Str)
	}
	return rt.Apply(v, nil)
}

// Apply reduces v against args.  A nil args means v is being evaluated on
// its own, with no argument list at all.  Every value can be applied and the
// result is always a value, errors included.
func (rt *Runtime) Apply(v *Val, args *Val) *Val {
	if lerr := rt.enter(); lerr != nil {
		return lerr
	}
	defer rt.leave()

	if v.Quoted {
		return Unquote(v)
	}
	switch v.Type {
	case VNumber, VString, VTruth:
		if args == nil {
			return v
		}
		return rt.consForced(v, args)
	case VEmpty:
		if noArgs(args) {
			return v
		}
		return rt.consForced(v, args)
	case VSymbol:
		if val, ok := rt.Registry.Get(v.Str); ok {
			return rt.Apply(val, args)
		}
		if noArgs(args) {
			return v
		}
		return Cons(v, args)
	case VFun:
		if args == nil {
			return v
		}
		return rt.funCall(v, args)
	case VMacro:
		if args == nil {
			return v
		}
		return rt.macroCall(v, args)
	case VPair:
		return rt.reducePair(v, args)
	case VError:
		return v
	default:
		return Errorf("cannot apply value of type %v", v.Type)
	}
}

func noArgs(args *Val) bool {
	return args == nil || args.Type == VEmpty
}

func (rt *Runtime) enter() *Val {
	if rt.ctx != nil {
		if err := rt.ctx.Err(); err != nil {
			return ErrorCondition(CondContextCancelled, fmt.Errorf("evaluation stopped: %w", err))
		}
	}
	if rt.MaxDepth > 0 && rt.depth >= rt.MaxDepth {
		return ErrorConditionf(CondStackOverflow, "maximum depth exceeded: %d", rt.MaxDepth)
	}
	rt.depth++
	return nil
}

func (rt *Runtime) leave() {
	rt.depth--
}

// reducePair reduces the pair p in the context of the argument list outer.
func (rt *Runtime) reducePair(p *Val, outer *Val) *Val {
	head := rt.Apply(p.Car, nil)
	if head.Type == VError {
		return head
	}
	direct := rt.Apply(head, p.Cdr)
	if direct.Type == VError {
		return direct
	}
	if noArgs(outer) {
		return direct
	}
	if head.Equal(direct) {
		// The head made no progress against its own tail.  Keep the form
		// partially applied rather than looping on it.
		return rt.consForced(p.Car, outer)
	}
	if direct.Equal(p) {
		// A data list in head position.
		return rt.consForced(direct, outer)
	}
	return rt.Apply(direct, outer)
}

// Force reduces each element of the chain lis on its own and returns a new
// chain of the results.  A lis which is not a pair is reduced directly.
func (rt *Runtime) Force(lis *Val) *Val {
	if lis.Type != VPair {
		return rt.Apply(lis, nil)
	}
	var vals []*Val
	for ; lis.Type == VPair; lis = lis.Cdr {
		x := rt.Apply(lis.Car, nil)
		if x.Type == VError {
			return x
		}
		vals = append(vals, x)
	}
	tail := Empty()
	if lis.Type != VEmpty {
		tail = rt.Apply(lis, nil)
		if tail.Type == VError {
			return tail
		}
	}
	return ListTail(vals, tail)
}

func (rt *Runtime) consForced(head *Val, args *Val) *Val {
	rest := rt.Force(args)
	if rest.Type == VError {
		return rest
	}
	return Cons(head, rest)
}

func (rt *Runtime) funCall(fun *Val, args *Val) *Val {
	forced := rt.Force(args)
	if forced.Type == VError {
		return forced
	}
	res := rt.callNative(fun, forced)
	if res.Type == VError {
		return res
	}
	return rt.Apply(res, nil)
}

func (rt *Runtime) macroCall(mac *Val, args *Val) *Val {
	return rt.callNative(mac, args)
}

func (rt *Runtime) callNative(fun *Val, args *Val) *Val {
	fd := fun.FunData()
	if rt.Profiler != nil && rt.Profiler.IsEnabled() {
		stop := rt.Profiler.Start(fun)
		defer stop()
	}
	res := fd.Builtin(rt, args)
	if res == nil {
		return Errorf("%s returned no value", FunName(fun))
	}
	return res
}

// bind installs bs in the registry and returns a function restoring the
// previous state.
func (rt *Runtime) bind(bs []Binding) func() {
	if rt.Logger.IsLevelEnabled(logrus.TraceLevel) {
		for _, b := range bs {
			if !b.Bound {
				continue
			}
			rt.Logger.WithFields(logrus.Fields{
				"symbol": b.Name,
				"value":  b.Value.String(),
			}).Trace("bind")
		}
	}
	if rt.locals == nil {
		rt.locals = make(map[string]int)
	}
	for _, b := range bs {
		rt.locals[b.Name]++
	}
	restore := rt.Registry.Install(bs)
	return func() {
		restore()
		for _, b := range bs {
			rt.locals[b.Name]--
			if rt.locals[b.Name] == 0 {
				delete(rt.locals, b.Name)
			}
		}
		if rt.Logger.IsLevelEnabled(logrus.TraceLevel) {
			for _, b := range bs {
				rt.Logger.WithField("symbol", b.Name).Trace("restore")
			}
		}
	}
}

// FunName returns the name fun was defined with, or "lambda" or "macro" for
// anonymous closures.
func FunName(fun *Val) string {
	fd := fun.FunData()
	if fd.Name != "" {
		return fd.Name
	}
	if fun.Type == VMacro {
		return "macro"
	}
	return "lambda"
}
