package postgresengine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgBuildUpdateQueryFailed = "failed to build update query"
	logMsgBuildDeleteQueryFailed = "failed to build delete query"
	logMsgCreateSchemaFailed     = "failed to create documents schema"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database statement execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgDuplicateDocument      = "insert rejected: document id already exists"
	logMsgAtomicWriteRejected    = "atomic write rejected: precondition failed"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "docstore operation: "

	logAttrError         = "error"
	logAttrQuery         = "query"
	logAttrCollection    = "collection"
	logAttrDocumentCount = "document_count"
	logAttrDurationMS    = "duration_ms"

	operationCreateSchema    = "create_schema"
	operationGet             = "get"
	operationQuery           = "query"
	operationInsert          = "insert"
	operationReplace         = "replace"
	operationUpdateFields    = "update_fields"
	operationDelete          = "delete"
	operationWriteAtomically = "write_atomically"

	metricOperationDuration = "docstore_operation_duration_seconds"
	metricDocumentsTouched  = "docstore_documents_touched"
	metricDatabaseErrors    = "docstore_database_errors_total"

	spanNamePrefix        = "docstore."
	spanAttrOperation     = "operation"
	spanAttrCollection    = "collection"
	spanAttrDocumentCount = "document_count"
	spanAttrErrorType     = "error_type"
	spanAttrDurationMS    = "duration_ms"

	labelStatus = "status"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeRowScan       = "row_scan"
	errorTypeDuplicate     = "duplicate_id"
	errorTypePrecondition  = "precondition_failed"
)

// operationObserver bundles tracing, metrics and logging for one store operation.
type operationObserver struct {
	s          DocumentStore
	ctx        context.Context
	span       SpanContext
	operation  string
	collection string
	start      time.Time
}

// startOperation opens a span (when tracing is configured) and starts the operation clock.
func (s DocumentStore) startOperation(ctx context.Context, operation string, collection string) (*operationObserver, context.Context) {
	var span SpanContext

	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation:  operation,
			spanAttrCollection: collection,
		})
	}

	return &operationObserver{
		s:          s,
		ctx:        ctx,
		span:       span,
		operation:  operation,
		collection: collection,
		start:      time.Now(),
	}, ctx
}

func (o *operationObserver) finishSuccess(documentCount int) {
	duration := time.Since(o.start)

	o.s.recordDuration(o.ctx, duration, o.operation, o.collection, statusSuccess)
	o.s.recordValue(o.ctx, metricDocumentsTouched, float64(documentCount), o.operation, o.collection)

	if o.s.tracingCollector != nil && o.span != nil {
		o.s.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrDocumentCount: strconv.Itoa(documentCount),
			spanAttrDurationMS:    formatDurationMS(duration),
		})
	}

	o.s.logOperation(o.ctx, o.operation,
		logAttrCollection, o.collection,
		logAttrDocumentCount, documentCount,
		logAttrDurationMS, toMilliseconds(duration),
	)
}

func (o *operationObserver) finishError(errorType string, err error, message string) {
	duration := time.Since(o.start)

	o.s.recordDuration(o.ctx, duration, o.operation, o.collection, statusError)
	o.s.recordError(o.ctx, o.operation, o.collection, errorType)

	if o.s.tracingCollector != nil && o.span != nil {
		o.s.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
			spanAttrErrorType:  errorType,
			spanAttrDurationMS: formatDurationMS(duration),
		})
	}

	o.s.logError(o.ctx, message, err, logAttrCollection, o.collection)
}

func (s DocumentStore) recordDuration(ctx context.Context, duration time.Duration, operation, collection, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation:  operation,
		spanAttrCollection: collection,
		labelStatus:        status,
	}

	if contextualCollector, ok := s.metricsCollector.(docstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (s DocumentStore) recordValue(ctx context.Context, metricName string, value float64, operation, collection string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation:  operation,
		spanAttrCollection: collection,
	}

	if contextualCollector, ok := s.metricsCollector.(docstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metricName, value, labels)
}

func (s DocumentStore) recordError(ctx context.Context, operation, collection, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation:  operation,
		spanAttrCollection: collection,
		labelStatus:        statusError,
		spanAttrErrorType:  errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(docstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s DocumentStore) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	} else if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+operation, args...)
	}
}

// logOperation logs operational information at info level.
func (s DocumentStore) logOperation(ctx context.Context, operation string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	} else if s.logger != nil {
		s.logger.Info(logMsgOperation+operation, args...)
	}
}

// logError logs error information at error level.
func (s DocumentStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	} else if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatDurationMS(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}
