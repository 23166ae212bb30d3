package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/esqproject/esq/extract/oteladapters"
)

func Test_NewTracingCollector_Construction(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	assert.NotNil(t, collector, "NewTracingCollector should return non-nil collector")
}

func Test_TracingCollector_StartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	attrs := map[string]string{
		"operation": "search",
	}

	ctx, spanCtx := collector.StartSpan(context.Background(), "esq.search", attrs)

	assert.NotNil(t, ctx, "Context should not be nil")
	assert.NotNil(t, spanCtx, "SpanContext should not be nil")

	collector.FinishSpan(spanCtx, "success", map[string]string{"hit_count": "7"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "esq.search", span.Name, "Span name should match")

	assertSpanHasAttribute(t, span, "operation", "search")
	assertSpanHasAttribute(t, span, "hit_count", "7")

	assert.Equal(t, codes.Ok, span.Status.Code, "Span should have OK status")
}

func Test_TracingCollector_FinishSpan_Error(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "esq.search", nil)
	collector.FinishSpan(spanCtx, "error", map[string]string{"error_type": "network"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, codes.Error, span.Status.Code, "Span should have Error status")
	assertSpanHasAttribute(t, span, "error_type", "network")
}

func Test_TracingCollector_UnknownStatusRecordedAsAttribute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "esq.search", nil)
	collector.FinishSpan(spanCtx, "something-else", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, codes.Unset, span.Status.Code, "Unknown status should leave the span status unset")
	assertSpanHasAttribute(t, span, "status", "something-else")
}

func Test_OTelSpanContext_AddAttribute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "esq.search", nil)
	spanCtx.AddAttribute("custom", "value")
	collector.FinishSpan(spanCtx, "success", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")
	assertSpanHasAttribute(t, spans[0], "custom", "value")
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == value {
			return
		}
	}

	t.Errorf("Span should have attribute %s=%s", key, value)
}
