package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/flowkit/logger"
	"github.com/skillsenselab/flowkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments the engine records around runs and
// vertex executions.
type Metrics struct {
	runTotal       metric.Int64Counter
	runDuration    metric.Float64Histogram
	vertexTotal    metric.Int64Counter
	vertexDuration metric.Float64Histogram
	vertexActive   metric.Int64UpDownCounter
	errorTotal     metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("flow.run.total",
		metric.WithDescription("Total number of runs by terminal status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("flow.run.duration",
		metric.WithDescription("Duration of runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.run.duration histogram: %w", err)
	}

	vertexTotal, err := meter.Int64Counter("flow.vertex.total",
		metric.WithDescription("Total number of vertex executions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.vertex.total counter: %w", err)
	}

	vertexDuration, err := meter.Float64Histogram("flow.vertex.duration",
		metric.WithDescription("Duration of vertex executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.vertex.duration histogram: %w", err)
	}

	vertexActive, err := meter.Int64UpDownCounter("flow.vertex.active",
		metric.WithDescription("Number of vertices currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.vertex.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("flow.error.total",
		metric.WithDescription("Total vertex errors by code and component type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flow.error.total counter: %w", err)
	}

	return &Metrics{
		runTotal:       runTotal,
		runDuration:    runDuration,
		vertexTotal:    vertexTotal,
		vertexDuration: vertexDuration,
		vertexActive:   vertexActive,
		errorTotal:     errorTotal,
	}, nil
}

// RecordVertexStart increments the active vertex count.
func (m *Metrics) RecordVertexStart(ctx context.Context) {
	m.vertexActive.Add(ctx, 1)
}

// RecordVertexEnd decrements active vertices and records the completed execution.
func (m *Metrics) RecordVertexEnd(ctx context.Context, componentType, status string, duration time.Duration) {
	m.vertexActive.Add(ctx, -1)
	m.vertexTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component_type", componentType),
		attribute.String("status", status),
	))
	m.vertexDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component_type", componentType),
	))
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, duration.Seconds())
}

// RecordError records a vertex error by code and component type.
func (m *Metrics) RecordError(ctx context.Context, code, componentType string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component_type", componentType),
	))
}
