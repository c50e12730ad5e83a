package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// SpySpanContext is the docstore.SpanContext handed out by TracingCollectorSpy.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// SpySpanRecord is one captured span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	span            *SpySpanContext
}

// TracingCollectorSpy records the calls of a docstore.TracingCollector.
type TracingCollectorSpy struct {
	records     []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewTracingCollectorSpy creates a TracingCollectorSpy.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, docstore.SpanContext) {
	if !s.recordCalls {
		return ctx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpySpanContext{}
	s.records = append(s.records, SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs), span: span})

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx docstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !s.recordCalls || !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].span == span {
			s.records[i].Status = status
			s.records[i].EndAttributes = maps.Clone(attrs)
			s.records[i].Finished = true
			return
		}
	}
}

// SpanRecords returns a copy of all captured spans.
func (s *TracingCollectorSpy) SpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.records...)
}

// HasFinishedSpan reports whether a span with the given name was finished with the given status.
func (s *TracingCollectorSpy) HasFinishedSpan(name, status string) bool {
	for _, record := range s.SpanRecords() {
		if record.Name == name && record.Finished && record.Status == status {
			return true
		}
	}

	return false
}

var _ docstore.TracingCollector = (*TracingCollectorSpy)(nil)
