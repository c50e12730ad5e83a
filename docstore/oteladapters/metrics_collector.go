package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// MetricsCollector implements docstore.ContextualMetricsCollector with an OpenTelemetry meter.
// Instruments are created lazily per metric name:
//   - RecordDuration records seconds into a Float64Histogram
//   - IncrementCounter adds 1 to an Int64Counter
//   - RecordValue records into a Float64Gauge
type MetricsCollector struct {
	meter      metric.Meter
	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	histogram, ok := m.histogram(metricName)
	if !ok {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter, ok := m.counter(metricName)
	if !ok {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	gauge, ok := m.gauge(metricName)
	if !ok {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) histogram(name string) (metric.Float64Histogram, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram, true
	}

	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription("operation duration"), metric.WithUnit("s"))
	if err != nil {
		return nil, false
	}
	m.histograms[name] = histogram

	return histogram, true
}

func (m *MetricsCollector) counter(name string) (metric.Int64Counter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter, true
	}

	counter, err := m.meter.Int64Counter(name, metric.WithDescription("operation counter"))
	if err != nil {
		return nil, false
	}
	m.counters[name] = counter

	return counter, true
}

func (m *MetricsCollector) gauge(name string) (metric.Float64Gauge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge, true
	}

	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription("current value"))
	if err != nil {
		return nil, false
	}
	m.gauges[name] = gauge

	return gauge, true
}

var _ docstore.ContextualMetricsCollector = (*MetricsCollector)(nil)
