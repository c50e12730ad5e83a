package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// Kinds of captured metric records.
const (
	MetricKindDuration = "duration"
	MetricKindCounter  = "counter"
	MetricKindValue    = "value"
)

// MetricsCollectorSpy records the calls of a docstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	records     []SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpyMetricRecord is one captured metric call.
type SpyMetricRecord struct {
	Kind     string
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates a MetricsCollectorSpy.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	s.records = append(s.records, record)
}

// Records returns a copy of all captured records of the given kind.
func (s *MetricsCollectorSpy) Records(kind string) []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyMetricRecord
	for _, record := range s.records {
		if record.Kind == kind {
			records = append(records, record)
		}
	}

	return records
}

// HasRecord starts a fluent check for a record of the given kind and metric name.
//
//	assert.True(t, spy.HasRecord(MetricKindDuration, "commands_duration_seconds").WithLabel("status", "success").Assert())
func (s *MetricsCollectorSpy) HasRecord(kind, metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []SpyMetricRecord
	for _, record := range s.records {
		if record.Kind == kind && record.Metric == metric {
			candidates = append(candidates, record)
		}
	}

	return &MetricRecordMatcher{candidates: candidates}
}

func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// MetricRecordMatcher narrows down captured records by label.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	var kept []SpyMetricRecord
	for _, record := range m.candidates {
		if record.Labels[key] == value {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// Assert reports whether at least one record matched all conditions.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

var _ docstore.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
