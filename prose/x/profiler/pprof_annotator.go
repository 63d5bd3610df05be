// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/prose/prose"
)

// pprofAnnotator labels the goroutine evaluating a function with the name of
// the function, so CPU profiles can be broken down by prose function.  It
// does not start CPU profiling itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ prose.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which sets pprof labels for each
// function call.
func NewPprofAnnotator(runtime *prose.Runtime, parentContext context.Context, opts ...Option) prose.Profiler {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun *prose.Val) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
