package split

import (
	"context"
	"time"

	"github.com/seuros/gopher-sass/src/buildinfo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/seuros/gopher-sass/src/split"

// ObservabilityConfig controls telemetry collection
type ObservabilityConfig struct {
	// EnableTracing enables OpenTelemetry tracing of partitions and imports
	EnableTracing bool

	// EnableMetrics enables OpenTelemetry metrics collection
	EnableMetrics bool

	// TracingAttributes are additional attributes to add to all spans
	TracingAttributes []attribute.KeyValue

	// MetricAttributes are additional attributes to add to all metrics
	MetricAttributes []attribute.KeyValue

	// TracerProvider and MeterProvider default to the global providers
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// DefaultObservabilityConfig returns default observability configuration
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		EnableTracing: true,
		EnableMetrics: true,
		TracingAttributes: []attribute.KeyValue{
			attribute.String("sass.splitter", "gopher-sass"),
			attribute.String("sass.splitter.version", buildinfo.Version),
		},
		MetricAttributes: []attribute.KeyValue{
			attribute.String("sass.splitter", "gopher-sass"),
		},
	}
}

// observabilityInstruments holds OpenTelemetry instruments
type observabilityInstruments struct {
	tracer trace.Tracer
	meter  metric.Meter

	partitionDuration metric.Float64Histogram
	nodeDecisions     metric.Int64Counter
	mixinExpansions   metric.Int64Counter
	importCount       metric.Int64Counter
	partitionErrors   metric.Int64Counter
}

// initObservability initializes OpenTelemetry instruments
func initObservability(config *ObservabilityConfig) *observabilityInstruments {
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := config.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName, metric.WithInstrumentationVersion(buildinfo.Version))

	instruments := &observabilityInstruments{
		tracer: tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(buildinfo.Version)),
		meter:  meter,
	}

	var err error

	instruments.partitionDuration, err = meter.Float64Histogram(
		"sass.partition.duration",
		metric.WithDescription("Duration of stylesheet partitions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.nodeDecisions, err = meter.Int64Counter(
		"sass.partition.nodes",
		metric.WithDescription("Number of nodes kept or dropped by partitions"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.mixinExpansions, err = meter.Int64Counter(
		"sass.mixin.expansions",
		metric.WithDescription("Number of includes expanded in static output"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.importCount, err = meter.Int64Counter(
		"sass.import.count",
		metric.WithDescription("Number of stylesheets inlined by @import"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.partitionErrors, err = meter.Int64Counter(
		"sass.partition.errors",
		metric.WithDescription("Number of partitions that failed"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return instruments
}

// partitionStats counts decisions made during one partition.
type partitionStats struct {
	kept       int64
	dropped    int64
	expansions int64
	imports    int64
}

// spanContext holds span-specific context information
type spanContext struct {
	span      trace.Span
	startTime time.Time
}

// startPartitionSpan creates the root span of a partition
func (oi *observabilityInstruments) startPartitionSpan(ctx context.Context, mode Mode, file string, config *ObservabilityConfig) (context.Context, *spanContext) {
	if !config.EnableTracing {
		return ctx, &spanContext{startTime: time.Now()}
	}

	attrs := make([]attribute.KeyValue, 0, len(config.TracingAttributes)+2)
	attrs = append(attrs, config.TracingAttributes...)
	attrs = append(attrs,
		attribute.String("sass.mode", mode.String()),
		attribute.String("sass.file", file),
	)

	ctx, span := oi.tracer.Start(ctx, "sass.partition", trace.WithAttributes(attrs...))
	return ctx, &spanContext{span: span, startTime: time.Now()}
}

// finishPartitionSpan records metrics and completes the partition span
func (oi *observabilityInstruments) finishPartitionSpan(spanCtx *spanContext, mode Mode, stats *partitionStats, err error, config *ObservabilityConfig) {
	duration := time.Since(spanCtx.startTime)
	ctx := context.Background()

	if config.EnableMetrics {
		modeAttr := attribute.String("sass.mode", mode.String())
		attrs := metric.WithAttributes(append(config.MetricAttributes, modeAttr)...)

		oi.partitionDuration.Record(ctx, duration.Seconds(), attrs)
		if err != nil {
			oi.partitionErrors.Add(ctx, 1, attrs)
		} else {
			oi.nodeDecisions.Add(ctx, stats.kept, metric.WithAttributes(append(config.MetricAttributes, modeAttr, attribute.String("sass.decision", "kept"))...))
			oi.nodeDecisions.Add(ctx, stats.dropped, metric.WithAttributes(append(config.MetricAttributes, modeAttr, attribute.String("sass.decision", "dropped"))...))
			if stats.expansions > 0 {
				oi.mixinExpansions.Add(ctx, stats.expansions, attrs)
			}
			if stats.imports > 0 {
				oi.importCount.Add(ctx, stats.imports, attrs)
			}
		}
	}

	if config.EnableTracing && spanCtx.span != nil {
		spanCtx.span.SetAttributes(
			attribute.Int64("sass.nodes.kept", stats.kept),
			attribute.Int64("sass.nodes.dropped", stats.dropped),
			attribute.Int64("sass.mixin.expansions", stats.expansions),
			attribute.Float64("sass.partition.duration_ms", float64(duration.Nanoseconds())/1e6),
		)
		if err != nil {
			spanCtx.span.RecordError(err)
			spanCtx.span.SetStatus(codes.Error, err.Error())
		} else {
			spanCtx.span.SetStatus(codes.Ok, "")
		}
		spanCtx.span.End()
	}
}

// startImportSpan opens a child span for one inlined stylesheet
func (oi *observabilityInstruments) startImportSpan(ctx context.Context, path string, config *ObservabilityConfig) (context.Context, trace.Span) {
	if !config.EnableTracing {
		return ctx, nil
	}
	return oi.tracer.Start(ctx, "sass.import", trace.WithAttributes(attribute.String("sass.import.path", path)))
}

func finishImportSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
