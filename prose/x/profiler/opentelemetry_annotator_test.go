// Copyright © 2024 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/prose/prose/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newExporter(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newExporter(t)
	rt := newRuntime(t)
	ppa := profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	require.NoError(t, ppa.Enable())
	assert.Same(t, ppa, rt.Profiler)
	load(t, rt)
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), 6, "Expected a span for every call")
	assert.Error(t, ppa.Enable(), "Expected enabling twice to fail")
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newExporter(t)
	rt := newRuntime(t)
	ppa := profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
		profiler.WithDocFilter(),
		profiler.WithDocLabeler())
	require.NoError(t, ppa.Enable())
	load(t, rt)
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3, "Expected selective spans")
	assert.Equal(t, "Add_It", spans[0].Name, "Expected custom label")
	assert.Equal(t, "twice", spans[1].Name, "Expected function name")
	assert.Equal(t, "Add_It", spans[2].Name, "Expected custom label")
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID(), "Expected nested span")
	assert.False(t, spans[2].Parent.IsValid(), "Expected root span")
}

func TestNewOpenTelemetryAnnotatorNilContext(t *testing.T) {
	rt := newRuntime(t)
	//nolint:staticcheck
	ppa := profiler.NewOpenTelemetryAnnotator(rt, nil)
	assert.Error(t, ppa.Enable())
}
