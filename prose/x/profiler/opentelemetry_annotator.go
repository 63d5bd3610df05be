// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/prose/prose"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type tracerKey struct{}

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context
// key.
var ContextOpenTelemetryTracerKey = tracerKey{}

var _ prose.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler which starts an OpenTelemetry
// span, a child of parentContext, for each function call.
func NewOpenTelemetryAnnotator(runtime *prose.Runtime, parentContext context.Context, opts ...Option) prose.Profiler {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = "prose"
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(fun *prose.Val) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(fun)
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.currentSpan.SetAttributes(
		semconv.CodeFunction(funName),
		attribute.Bool("prose.closure", fun.FunData().IsClosure()),
		attribute.Bool("prose.macro", fun.Type == prose.VMacro),
		attribute.Int("prose.depth", p.runtime.Depth()),
	)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}
