package command

import (
	"context"
	"io"
	"log/slog"

	"github.com/AntonStoeckl/library-lending-go/docstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/config"
)

const instrumentationName = "github.com/AntonStoeckl/library-lending-go"

// observability bundles the logger and the optional OpenTelemetry collectors handed to every layer.
// metrics and tracing stay nil unless OpenTelemetry is enabled.
type observability struct {
	logger           *slog.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	shutdown         func() error
}

func newObservability(ctx context.Context, cfg config.ObservabilityConfig, level slog.Level, logOutput io.Writer) (*observability, error) {
	handler := slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: level})

	obs := &observability{
		logger:           slog.New(handler),
		contextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(handler),
		shutdown:         func() error { return nil },
	}

	if !cfg.OTelEnabled {
		return obs, nil
	}

	providers, err := config.NewObservabilityProviders(ctx, cfg, Version)
	if err != nil {
		return nil, err
	}

	obs.metrics = oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))
	obs.tracing = oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(instrumentationName))
	obs.shutdown = providers.Shutdown

	return obs, nil
}
