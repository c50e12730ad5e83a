package docstore

import "context"

// ConsistencyLevel defines the consistency requirements for document store reads.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database to ensure
	// read-after-write consistency. This is the default, command handlers that
	// validate against freshly loaded documents rely on it.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from replica databases. Suitable for
	// derived views and searches that can tolerate slightly stale data.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "docstore.consistency_level"

// WithStrongConsistency returns a context that signals reads should hit the primary database.
//
// Example usage:
//
//	ctx = docstore.WithStrongConsistency(ctx)
//	docs, err := store.GetAll(ctx, "bookCopies")
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals reads may be served by a replica.
//
// Example usage:
//
//	ctx = docstore.WithEventualConsistency(ctx)
//	docs, err := store.GetAll(ctx, "borrowedBooks")
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// If no consistency level is set, it returns StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}
	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
