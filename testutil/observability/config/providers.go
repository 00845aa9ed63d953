package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestMetrics is a MeterProvider whose measurements are read on demand.
type TestMetrics struct {
	Provider *sdkmetric.MeterProvider
	Reader   *sdkmetric.ManualReader
}

// NewTestMetrics creates a TestMetrics and shuts it down when t finishes.
func NewTestMetrics(t testing.TB) TestMetrics {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return TestMetrics{Provider: provider, Reader: reader}
}

// Collect returns the metric called name and fails t if it was never recorded.
func (m TestMetrics) Collect(t testing.TB, name string) metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, m.Reader.Collect(context.Background(), &resourceMetrics), "error collecting metrics")

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, collected := range scopeMetrics.Metrics {
			if collected.Name == name {
				return collected
			}
		}
	}

	require.Failf(t, "metric not found", "metric %q was not collected", name)

	return metricdata.Metrics{}
}

// TestTracing is a TracerProvider that exports every span synchronously into memory.
type TestTracing struct {
	Provider *sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTestTracing creates a TestTracing and shuts it down when t finishes.
func NewTestTracing(t testing.TB) TestTracing {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return TestTracing{Provider: provider, Exporter: exporter}
}

// Spans returns the finished spans.
func (tr TestTracing) Spans() tracetest.SpanStubs {
	return tr.Exporter.GetSpans()
}
