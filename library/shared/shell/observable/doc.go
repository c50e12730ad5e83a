// Package observable provides wrapper components for instrumenting command and query handlers
// with metrics, tracing and logging while keeping the handlers free of observability code.
//
// The wrappers are applied at wiring time, e.g. in cmd/librarian:
//
//	coreHandler := borrowbookcopy.NewCommandHandler(store, gate)
//
//	handler, err := observable.NewCommandWrapper[borrowbookcopy.Command](
//		coreHandler,
//		observable.WithCommandMetrics[borrowbookcopy.Command](metricsCollector),
//		observable.WithCommandTracing[borrowbookcopy.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbookcopy.Command](contextualLogger),
//	)
//
//	result, err := handler.Handle(ctx, command)
//
// Rejections by a lending rule or the access gate are recorded with status "rejected" or "offline"
// and logged at warn level. Only store and infrastructure failures are logged as errors.
//
// For unit tests focused on business logic, use the handlers without a wrapper.
package observable
