package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/observable"
	. "github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := &mockQueryHandler{result: mockResult{Value: "ok"}}
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)
	wrapper, err := observable.NewQueryWrapper[mockQuery, mockResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockResult](metricsCollector),
		observable.WithQueryTracing[mockQuery, mockResult](tracingCollector),
		observable.WithQueryContextualLogging[mockQuery, mockResult](contextualLogger),
	)
	assert.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
	assert.True(t, metricsCollector.HasRecord(MetricKindCounter, shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithLabel(shell.LogAttrStatus, shell.StatusSuccess).
		Assert())
	assert.False(t, metricsCollector.HasRecord(MetricKindCounter, shell.QueryHandlerStaleMetric).Assert())
	assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameQueryHandle, shell.StatusSuccess))
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryStarted))
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_StaleResultIsCounted(t *testing.T) {
	// arrange
	handler := &mockQueryHandler{result: mockResult{Stale: true}}
	metricsCollector := NewMetricsCollectorSpy(true)
	wrapper, err := observable.NewQueryWrapper[mockQuery, mockResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockResult](metricsCollector),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.HasRecord(MetricKindCounter, shell.QueryHandlerStaleMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		Assert())
}

func Test_QueryWrapper_Handle_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus string
	}{
		{name: "offline without cache", err: core.ErrOffline, expectedStatus: shell.StatusOffline},
		{name: "not found", err: core.ErrNotFound, expectedStatus: shell.StatusError},
		{name: "canceled", err: context.Canceled, expectedStatus: shell.StatusCanceled},
		{name: "timeout", err: context.DeadlineExceeded, expectedStatus: shell.StatusTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			handler := &mockQueryHandler{err: tt.err}
			metricsCollector := NewMetricsCollectorSpy(true)
			contextualLogger := NewContextualLoggerSpy(true)
			wrapper, err := observable.NewQueryWrapper[mockQuery, mockResult](
				handler,
				observable.WithQueryMetrics[mockQuery, mockResult](metricsCollector),
				observable.WithQueryContextualLogging[mockQuery, mockResult](contextualLogger),
			)
			assert.NoError(t, err)

			// act
			_, err = wrapper.Handle(context.Background(), mockQuery{})

			// assert
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, metricsCollector.HasRecord(MetricKindCounter, shell.QueryHandlerCallsMetric).
				WithLabel(shell.LogAttrStatus, tt.expectedStatus).
				Assert())
			assert.True(t, contextualLogger.HasErrorLog(shell.LogMsgQueryFailed))
		})
	}
}

// mockQuery implements shell.Query for testing.
type mockQuery struct{}

func (q mockQuery) QueryType() string { return "TestQuery" }

// mockResult implements shell.QueryResult for testing.
type mockResult struct {
	Value string
	Stale bool
}

func (r mockResult) IsStale() bool { return r.Stale }

// mockQueryHandler implements shell.CoreQueryHandler for testing.
type mockQueryHandler struct {
	result mockResult
	err    error
}

func (h *mockQueryHandler) Handle(_ context.Context, _ mockQuery) (mockResult, error) {
	return h.result, h.err
}
