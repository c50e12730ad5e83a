// Package testdoubles provides spies for the observability interfaces of the docstore
// and the library handlers.
//
//   - ContextualLoggerSpy captures context-aware log calls
//   - MetricsCollectorSpy captures durations, counters and values
//   - TracingCollectorSpy captures started and finished spans
//
// Every spy only records when it was created with recordCalls set to true.
package testdoubles
