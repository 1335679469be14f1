package split

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultObservabilityConfig(t *testing.T) {
	config := DefaultObservabilityConfig()
	assert.True(t, config.EnableTracing)
	assert.True(t, config.EnableMetrics)
	assert.Contains(t, config.TracingAttributes, attribute.String("sass.splitter", "gopher-sass"))
	assert.Contains(t, config.MetricAttributes, attribute.String("sass.splitter", "gopher-sass"))
}

func TestObservabilityInstrumentation(t *testing.T) {
	instruments := initObservability(DefaultObservabilityConfig())
	assert.NotNil(t, instruments.tracer)
	assert.NotNil(t, instruments.meter)
	assert.NotNil(t, instruments.partitionDuration)
	assert.NotNil(t, instruments.nodeDecisions)
	assert.NotNil(t, instruments.mixinExpansions)
	assert.NotNil(t, instruments.importCount)
	assert.NotNil(t, instruments.partitionErrors)
}

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	config *ObservabilityConfig
}

func newTelemetry() *telemetry {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	return &telemetry{
		spans:  spans,
		reader: reader,
		config: &ObservabilityConfig{
			EnableTracing:  true,
			EnableMetrics:  true,
			TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
			MeterProvider:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		},
	}
}

// sums returns the total of every int64 counter by name.
func (tel *telemetry) sums(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tel.reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += int64(dp.Count)
				}
			}
		}
	}
	return out
}

func TestPartitionTelemetry(t *testing.T) {
	tel := newTelemetry()
	imp := memImporter{files: map[string]string{"vars": "$c: red;\n.v { x: y; }"}}
	src := "@import \"vars\";\n@mixin m($a) { b: $a; }\n.a { @include m(1px); width: $w; }"

	_, err := Partition(mustParse(t, src), Static, WithImporter(imp), WithObservability(tel.config))
	require.NoError(t, err)

	spans := tel.spans.Ended()
	require.Len(t, spans, 2)
	importSpan, partitionSpan := spans[0], spans[1]
	assert.Equal(t, "sass.import", importSpan.Name())
	assert.Equal(t, "sass.partition", partitionSpan.Name())
	assert.Equal(t, partitionSpan.SpanContext().SpanID(), importSpan.Parent().SpanID())
	assert.Equal(t, codes.Ok, partitionSpan.Status().Code)
	assert.Contains(t, partitionSpan.Attributes(), attribute.String("sass.mode", "static"))
	assert.Contains(t, partitionSpan.Attributes(), attribute.Int64("sass.mixin.expansions", 1))

	sums := tel.sums(t)
	assert.Equal(t, int64(1), sums["sass.partition.duration"])
	assert.Equal(t, int64(1), sums["sass.mixin.expansions"])
	assert.Equal(t, int64(1), sums["sass.import.count"])
	// kept: x, b; dropped: width
	assert.Equal(t, int64(3), sums["sass.partition.nodes"])
	assert.Zero(t, sums["sass.partition.errors"])
}

func TestPartitionTelemetryOnError(t *testing.T) {
	tel := newTelemetry()
	_, err := Partition(mustParse(t, ".a { @include nope; }"), Dynamic, WithObservability(tel.config))
	require.Error(t, err)

	spans := tel.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, int64(1), tel.sums(t)["sass.partition.errors"])
}

func TestTelemetryDisabled(t *testing.T) {
	tel := newTelemetry()
	tel.config.EnableTracing = false
	tel.config.EnableMetrics = false

	_, err := Partition(mustParse(t, ".a { b: c; }"), Static, WithObservability(tel.config))
	require.NoError(t, err)
	assert.Empty(t, tel.spans.Ended())
	assert.Empty(t, tel.sums(t))
}
