// Copyright © 2024 The ELPS authors

package prose

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth is the nesting limit of a StandardRuntime.
const DefaultMaxDepth = 10000

// Reader parses source text into top-level forms.
type Reader interface {
	Read(name string, r io.Reader) ([]*Val, error)
}

// Runtime is the state shared by every evaluation performed with it.  A
// Runtime is not safe for concurrent use.
type Runtime struct {
	Registry *Registry
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *logrus.Logger
	Profiler Profiler
	Reader   Reader
	// MaxDepth bounds the nesting of Apply.  A value of zero or less
	// removes the bound.
	MaxDepth int

	ctx      context.Context
	depth    int
	defining map[string]int
	// locals counts the bindings of each name installed by calls and let1
	// forms still being evaluated.
	locals map[string]int
}

// StandardRuntime returns a new Runtime with an empty registry, Stdout and
// Stderr set to os.Stdout and os.Stderr, and a logger that discards its
// output.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Runtime{
		Registry: NewRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   logger,
		MaxDepth: DefaultMaxDepth,
	}
}

// NewRuntime returns a StandardRuntime with the core forms and builtins
// registered and config applied.
func NewRuntime(config ...Config) (*Runtime, error) {
	rt := StandardRuntime()
	if lerr := InitializeRuntime(rt, config...); lerr.Type == VError {
		return nil, GoError(lerr)
	}
	return rt, nil
}

// InitializeRuntime registers the core forms and builtins in rt and applies
// config in order.  Any error value produced by a Config is returned.
func InitializeRuntime(rt *Runtime, config ...Config) *Val {
	rt.Registry.Put("nil", Empty())
	rt.Registry.Put("#t", Truth())
	rt.AddMacros(DefaultMacros()...)
	rt.AddBuiltins(DefaultBuiltins()...)
	for _, fn := range config {
		lerr := fn(rt)
		if lerr.Type == VError {
			return lerr
		}
	}
	return Empty()
}

// Context returns the context evaluation is bound to.
func (rt *Runtime) Context() context.Context {
	if rt.ctx == nil {
		return context.Background()
	}
	return rt.ctx
}

// Depth returns the current nesting of Apply.
func (rt *Runtime) Depth() int {
	return rt.depth
}

// AddBuiltins binds each function in funs, and its aliases, to a builtin
// function value.  AddBuiltins panics if a name is already bound.
func (rt *Runtime) AddBuiltins(funs ...BuiltinDef) {
	rt.addDefs(VFun, funs)
}

// AddMacros binds each macro in macs, and its aliases, to a builtin macro
// value.  AddMacros panics if a name is already bound.
func (rt *Runtime) AddMacros(macs ...BuiltinDef) {
	rt.addDefs(VMacro, macs)
}

func (rt *Runtime) addDefs(typ VType, defs []BuiltinDef) {
	for _, def := range defs {
		names := append([]string{def.Name()}, def.Aliases()...)
		for _, name := range names {
			if rt.Registry.Bound(name) {
				panic("symbol already defined: " + name)
			}
			rt.Registry.Put(name, &Val{
				Type: typ,
				Native: &FunData{
					Name:    name,
					Doc:     def.Docstring(),
					Builtin: def.Eval,
				},
			})
		}
	}
}

// Load reads the source in r and evaluates each of its forms in order.  The
// result of the final form is returned, or the first error encountered.
func (rt *Runtime) Load(name string, r io.Reader) *Val {
	if rt.Reader == nil {
		return Errorf("no reader for runtime")
	}
	forms, err := rt.Reader.Read(name, r)
	if err != nil {
		return Error(err)
	}
	result := Empty()
	for _, form := range forms {
		result = rt.Eval(form)
		if result.Type == VError {
			return result
		}
	}
	return result
}

// LoadString evaluates the forms in source.
func (rt *Runtime) LoadString(name, source string) *Val {
	return rt.Load(name, strings.NewReader(source))
}
