// Package oteladapters implements the docstore observability interfaces with OpenTelemetry.
//
// The same adapters serve the library command and query handlers, whose observability
// interfaces are aliases of the docstore ones:
//
//	tracing := oteladapters.NewTracingCollector(otel.Tracer("library"))
//	metrics := oteladapters.NewMetricsCollector(otel.Meter("library"))
//	logger := oteladapters.NewSlogBridgeLogger("library")
package oteladapters
