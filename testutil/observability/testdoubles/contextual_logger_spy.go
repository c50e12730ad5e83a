package testdoubles

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// ContextualLoggerSpy records the calls of a docstore.ContextualLogger.
type ContextualLoggerSpy struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpyLogRecord is one captured log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewContextualLoggerSpy creates a ContextualLoggerSpy.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// Records returns a copy of all captured records of the given level.
func (s *ContextualLoggerSpy) Records(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyLogRecord
	for _, record := range s.records {
		if record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	return s.has("debug", message)
}

func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return s.has("info", message)
}

func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	return s.has("warn", message)
}

func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return s.has("error", message)
}

// TotalRecordCount returns the number of captured records across all levels.
func (s *ContextualLoggerSpy) TotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

func (s *ContextualLoggerSpy) has(level, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.ContainsFunc(s.records, func(r SpyLogRecord) bool {
		return r.Level == level && r.Message == message
	})
}

var _ docstore.ContextualLogger = (*ContextualLoggerSpy)(nil)
