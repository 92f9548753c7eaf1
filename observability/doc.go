// Package observability provides OpenTelemetry tracing and metrics for the
// flow engine: OTLP exporter setup, span helpers, and the metric instruments
// recorded around vertex executions and runs.
package observability
