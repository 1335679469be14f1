package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/seuros/gopher-sass/src/buildinfo"
	"github.com/seuros/gopher-sass/src/split"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// telemetry owns the SDK providers installed by --telemetry.
type telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	config         *split.ObservabilityConfig
}

// newTelemetry exports spans and metrics of a run to w.
func newTelemetry(w io.Writer) (*telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", "sass-split"),
		attribute.String("service.version", buildinfo.Version),
	)

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(traceExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	config := split.DefaultObservabilityConfig()
	config.TracerProvider = tp
	config.MeterProvider = mp
	config.TracingAttributes = append(config.TracingAttributes, attribute.String("sass.user_agent", buildinfo.UserAgent()))

	return &telemetry{tracerProvider: tp, meterProvider: mp, config: config}, nil
}

// shutdown flushes pending spans and metrics.
func (t *telemetry) shutdown(ctx context.Context) error {
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
