package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/property-kit-go/oteladapters"
	"github.com/AntonStoeckl/property-kit-go/testutil/observability/config"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	metrics := config.NewTestMetrics(t)
	collector := oteladapters.NewMetricsCollector(metrics.Provider.Meter("test"))

	// act
	collector.RecordDuration("defaults_operation_duration_seconds", 150*time.Millisecond, map[string]string{
		"operation": "get",
		"status":    "success",
	})

	// assert
	histogram, ok := metrics.Collect(t, "defaults_operation_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001)

	expected := attribute.NewSet(attribute.String("operation", "get"), attribute.String("status", "success"))
	assert.True(t, dataPoint.Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	metrics := config.NewTestMetrics(t)
	collector := oteladapters.NewMetricsCollector(metrics.Provider.Meter("test"))
	labels := map[string]string{"operation": "set", "status": "success"}

	// act
	collector.IncrementCounter("defaults_operations_total", labels)
	collector.IncrementCounterContext(context.Background(), "defaults_operations_total", labels)
	collector.IncrementCounter("defaults_operations_total", labels)

	// assert
	sum, ok := metrics.Collect(t, "defaults_operations_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// setup
	metrics := config.NewTestMetrics(t)
	collector := oteladapters.NewMetricsCollector(metrics.Provider.Meter("test"))

	// act
	collector.RecordValue("defaults_keys", 3, map[string]string{"suite": "app"})
	collector.RecordValueContext(context.Background(), "defaults_keys", 5, map[string]string{"suite": "app"})

	// assert
	gauge, ok := metrics.Collect(t, "defaults_keys").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 5.0, gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	// setup
	metrics := config.NewTestMetrics(t)
	collector := oteladapters.NewMetricsCollector(metrics.Provider.Meter("test"))

	// act
	collector.IncrementCounter("defaults_errors_total", map[string]string{"error_type": "backend_error"})
	collector.IncrementCounter("defaults_errors_total", map[string]string{"error_type": "encode_error"})
	collector.IncrementCounter("defaults_errors_total", nil)

	// assert
	sum, ok := metrics.Collect(t, "defaults_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 3)
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// setup
	metrics := config.NewTestMetrics(t)
	collector := oteladapters.NewMetricsCollector(metrics.Provider.Meter("test"))
	var wg sync.WaitGroup

	// act
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.IncrementCounter("concurrent_total", nil)
				collector.RecordDuration("concurrent_duration_seconds", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	// assert
	sum, ok := metrics.Collect(t, "concurrent_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1000), sum.DataPoints[0].Value)
}
