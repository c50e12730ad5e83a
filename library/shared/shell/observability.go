package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration (OpenTelemetry-compatible).
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerIdempotentMetric tracks idempotent operations.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"

	// CommandHandlerRejectedMetric tracks commands refused by a lending or catalog rule.
	//
	// Labels:
	//   - command_type
	//   - reason: the core.FailureReason of the rejection (e.g. "limit_exceeded")
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// CommandHandlerOfflineMetric tracks commands refused because the store was unreachable.
	CommandHandlerOfflineMetric = "commandhandler_offline_operations_total"

	// CommandHandlerCanceledMetric tracks canceled operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"

	// CommandHandlerTimeoutMetric tracks timeout operations.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"

	// CommandHandlerRetriesMetric tracks retries of follow-up writes.
	//
	// Labels:
	//   - command_type
	//   - attempt_number
	//   - error_type
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks the backoff before each retry of a follow-up write.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks follow-up writes that still failed after the last attempt.
	// Every increment is a copy whose availability disagrees with its loans until the next reconciliation.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration (OpenTelemetry-compatible).
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// QueryHandlerStaleMetric tracks queries answered from a cached snapshot.
	QueryHandlerStaleMetric = "queryhandler_stale_results_total"

	// QueryHandlerCanceledMetric tracks canceled query operations.
	QueryHandlerCanceledMetric = "queryhandler_canceled_operations_total"

	// QueryHandlerTimeoutMetric tracks timeout query operations.
	QueryHandlerTimeoutMetric = "queryhandler_timeout_operations_total"

	// SnapshotLoadSourceMetric tracks where library snapshots came from.
	//
	// Labels:
	//   - source: "store" or "cache"
	SnapshotLoadSourceMetric = "snapshot_loads_total"

	// SnapshotCorrectionsMetric records how many copies had their availability corrected in memory on load.
	SnapshotCorrectionsMetric = "snapshot_availability_corrections"

	// StatusSuccess indicates successful completion.
	StatusSuccess = "success"

	// StatusError indicates a processing error.
	StatusError = "error"

	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"

	// StatusRejected indicates a rule refused the command.
	StatusRejected = "rejected"

	// StatusOffline indicates the command was refused because the store was unreachable.
	StatusOffline = "offline"

	// StatusCanceled indicates the operation was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the operation timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// LogMsgCommandStarted is logged when command processing begins.
	LogMsgCommandStarted = "command handler started"

	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"

	// LogMsgCommandRejected is logged when a rule refuses the command.
	LogMsgCommandRejected = "command handler rejected"

	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogMsgPartialWrite is logged when the first write of an ordered write succeeded and a later one failed.
	LogMsgPartialWrite = "ordered write incomplete: availability will be corrected by reconciliation"

	// LogMsgQueryStarted is logged when query processing begins.
	LogMsgQueryStarted = "query handler started"

	// LogMsgQueryCompleted is logged when query processing succeeds.
	LogMsgQueryCompleted = "query handler completed"

	// LogMsgQueryFailed is logged when query processing fails.
	LogMsgQueryFailed = "query handler failed"

	// LogMsgSnapshotLoaded is logged when the collections were read from the store.
	LogMsgSnapshotLoaded = "library snapshot loaded from store"

	// LogMsgSnapshotServedFromCache is logged when an offline read was answered from the cache.
	LogMsgSnapshotServedFromCache = "library snapshot served from cache"

	// LogMsgSnapshotSaveError is logged when the snapshot could not be written to the cache.
	LogMsgSnapshotSaveError = "library snapshot save error"

	// LogMsgSnapshotCacheError is logged when the cache could not be read.
	LogMsgSnapshotCacheError = "library snapshot cache error"

	// LogMsgAvailabilityCorrected is logged when a loaded copy disagreed with its loans.
	LogMsgAvailabilityCorrected = "copy availability corrected on load"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"

	// LogAttrQueryType identifies the query type in logs.
	LogAttrQueryType = "query_type"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrBusinessOutcome classifies the business result.
	LogAttrBusinessOutcome = "business_outcome"

	// LogAttrReason is the core.FailureReason of a rejected or failed operation.
	LogAttrReason = "reason"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LogAttrWriteMode is the WriteMode of a command.
	LogAttrWriteMode = "write_mode"

	// LogAttrDocumentIDs lists written document ids.
	LogAttrDocumentIDs = "document_ids"

	// LogAttrSource names where a snapshot came from.
	LogAttrSource = "source"

	// LogAttrSnapshotAge is the age of a cached snapshot in seconds.
	LogAttrSnapshotAge = "snapshot_age_s"

	// LogAttrCopyID identifies a book copy.
	LogAttrCopyID = "copy_id"

	// LogAttrCount is a generic count.
	LogAttrCount = "count"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"

	// SpanNameQueryHandle is the tracing span name for query handling.
	SpanNameQueryHandle = "queryhandler.handle"

	// SpanNameSnapshotLoad is the tracing span name for loading a library snapshot.
	SpanNameSnapshotLoad = "snapshot.load"

	// SnapshotSourceStore marks a snapshot read from the document store.
	SnapshotSourceStore = "store"

	// SnapshotSourceCache marks a snapshot served from the cache.
	SnapshotSourceCache = "cache"
)

// Interface aliases for convenience when using handler observability.
// These match the docstore observability interfaces for consistency.

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = docstore.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = docstore.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = docstore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = docstore.SpanContext

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = docstore.ContextualLogger

// Logger interface for basic logging in handlers.
type Logger = docstore.Logger

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   fmt.Sprintf("%d", attemptNumber),
		"error_type":       errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// CommandStatusOf classifies a command error for metrics, spans and logs.
func CommandStatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case errors.Is(err, core.ErrOffline):
		return StatusOffline
	case errors.Is(err, core.ErrPermissionDenied), core.IsPolicyViolation(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// RecordCommandMetrics records all relevant metrics for a command operation.
// It handles both context-aware and basic metrics collectors automatically.
// The reason is only used for rejected commands.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	reason string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	switch status {
	case StatusIdempotent:
		incrementCounter(ctx, collector, CommandHandlerIdempotentMetric, BuildCommandLabels(commandType, status))
	case StatusRejected:
		rejectedLabels := BuildCommandLabels(commandType, status)
		rejectedLabels[LogAttrReason] = reason
		incrementCounter(ctx, collector, CommandHandlerRejectedMetric, rejectedLabels)
	case StatusOffline:
		incrementCounter(ctx, collector, CommandHandlerOfflineMetric, BuildCommandLabels(commandType, status))
	case StatusCanceled:
		incrementCounter(ctx, collector, CommandHandlerCanceledMetric, BuildCommandLabels(commandType, status))
	case StatusTimeout:
		incrementCounter(ctx, collector, CommandHandlerTimeoutMetric, BuildCommandLabels(commandType, status))
	}
}

// RecordQueryMetrics records all relevant metrics for a query operation.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	stale bool,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)

	if stale {
		incrementCounter(ctx, collector, QueryHandlerStaleMetric, BuildQueryLabels(queryType, status))
	}

	switch status {
	case StatusCanceled:
		incrementCounter(ctx, collector, QueryHandlerCanceledMetric, BuildQueryLabels(queryType, status))
	case StatusTimeout:
		incrementCounter(ctx, collector, QueryHandlerTimeoutMetric, BuildQueryLabels(queryType, status))
	}
}

// RecordSnapshotLoad records where a snapshot came from and how many copies were corrected.
func RecordSnapshotLoad(ctx context.Context, collector MetricsCollector, source string, corrections int) {
	if collector == nil {
		return
	}

	labels := map[string]string{LogAttrSource: source}
	incrementCounter(ctx, collector, SnapshotLoadSourceMetric, labels)

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, SnapshotCorrectionsMetric, float64(corrections), labels)
		return
	}

	collector.RecordValue(SnapshotCorrectionsMetric, float64(corrections), labels)
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, duration time.Duration, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan starts a distributed tracing span for command operations.
// Returns the updated context and span context, or original context and nil if tracing is disabled.
func StartCommandSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	commandType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{
		LogAttrCommandType: commandType,
	})
}

// StartQuerySpan starts a distributed tracing span for query operations.
func StartQuerySpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	queryType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{
		LogAttrQueryType: queryType,
	})
}

// FinishSpan completes a command or query span with the operation outcome.
func FinishSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
		attrs[LogAttrReason] = core.FailureReason(err)
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	LogInfo(ctx, logger, contextualLogger, LogMsgCommandStarted, LogAttrCommandType, commandType)
}

// LogCommandSuccess logs successful command completion.
func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	businessOutcome string,
	result HandlerResult,
	duration time.Duration,
) {
	LogInfo(ctx, logger, contextualLogger, LogMsgCommandCompleted,
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrWriteMode, string(result.WriteMode),
		LogAttrDocumentIDs, result.DocumentIDs,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogCommandRejected logs a command refused by a rule or the access gate. It is not an error of the system.
func LogCommandRejected(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string, err error) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrReason, core.FailureReason(err),
		LogAttrError, err.Error(),
	}

	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, LogMsgCommandRejected, args...)
	} else if logger != nil {
		logger.Warn(LogMsgCommandRejected, args...)
	}
}

// LogCommandError logs command processing errors.
func LogCommandError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	result HandlerResult,
	err error,
) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrReason, core.FailureReason(err),
		LogAttrError, err.Error(),
	}

	if len(result.DocumentIDs) > 0 {
		args = append(args, LogAttrDocumentIDs, result.DocumentIDs)
	}

	LogError(ctx, logger, contextualLogger, LogMsgCommandFailed, args...)
}

// LogQueryStart logs the beginning of query processing.
func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string) {
	LogInfo(ctx, logger, contextualLogger, LogMsgQueryStarted, LogAttrQueryType, queryType)
}

// LogQuerySuccess logs successful query completion.
func LogQuerySuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	stale bool,
	duration time.Duration,
) {
	LogInfo(ctx, logger, contextualLogger, LogMsgQueryCompleted,
		LogAttrQueryType, queryType,
		LogAttrBusinessOutcome, StatusSuccess,
		"stale", stale,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogQueryError logs query processing errors.
func LogQueryError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string, err error) {
	LogError(ctx, logger, contextualLogger, LogMsgQueryFailed,
		LogAttrQueryType, queryType,
		LogAttrReason, core.FailureReason(err),
		LogAttrError, err.Error(),
	)
}

// LogPartialWrite reports an ordered write that stopped after some documents were written.
func LogPartialWrite(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	writtenIDs []string,
	err error,
) {
	LogError(ctx, logger, contextualLogger, LogMsgPartialWrite,
		LogAttrCommandType, commandType,
		LogAttrDocumentIDs, writtenIDs,
		LogAttrError, err.Error(),
	)
}

// LogInfo logs at info level, preferring the contextual logger.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogWarn logs at warn level, preferring the contextual logger.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogError logs at error level, preferring the contextual logger.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}

// formatDurationMS formats duration in milliseconds for span attributes.
func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
