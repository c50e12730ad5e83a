package postgresengine

import (
	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// Logger is the leveled logger used for SQL debugging and operational logs.
type Logger = docstore.Logger

// MetricsCollector records durations, counters and values for store operations.
type MetricsCollector = docstore.MetricsCollector

// SpanContext represents an active tracing span.
type SpanContext = docstore.SpanContext

// TracingCollector creates spans around store operations.
type TracingCollector = docstore.TracingCollector

// ContextualLogger is the context-aware logger, preferred over Logger when both are set.
type ContextualLogger = docstore.ContextualLogger

// Option defines a functional option for configuring DocumentStore.
type Option func(*DocumentStore) error

// WithTableName sets the table name for the DocumentStore.
func WithTableName(tableName string) Option {
	return func(s *DocumentStore) error {
		if tableName == "" {
			return docstore.ErrEmptyTableNameSupplied
		}

		s.tableName = tableName

		return nil
	}
}

// WithIDGenerator replaces the default UUID v4 generator used for inserts without an id.
func WithIDGenerator(newID func() string) Option {
	return func(s *DocumentStore) error {
		if newID != nil {
			s.newID = newID
		}

		return nil
	}
}

// WithLogger sets the logger for the DocumentStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: document counts and durations per operation (production-safe)
// Error level: failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *DocumentStore) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the DocumentStore.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *DocumentStore) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the DocumentStore.
func WithTracing(collector TracingCollector) Option {
	return func(s *DocumentStore) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the DocumentStore.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *DocumentStore) error {
		s.contextualLogger = logger
		return nil
	}
}
