// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/prose/prose"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       *stack.Stack
}

var _ prose.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler which starts an OpenCensus span,
// a child of parentContext, for each function call.
func NewOpenCensusAnnotator(runtime *prose.Runtime, parentContext context.Context, opts ...Option) prose.Profiler {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *prose.Val) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, funName := p.prettyFunName(fun)
	p.contexts.Push(p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	return func() {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("function", funName),
			trace.BoolAttribute("closure", fun.FunData().IsClosure()),
			trace.Int64Attribute("depth", int64(p.runtime.Depth())),
		}, "call")
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = p.contexts.Pop().(context.Context)
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
