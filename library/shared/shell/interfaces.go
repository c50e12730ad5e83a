package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Query represents the contract for all query types of the library.
// The QueryType method enables polymorphic handling and observability instrumentation.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all query results (derived views).
// IsStale reports whether the view was computed from a cached snapshot while the store was unreachable.
type QueryResult interface {
	IsStale() bool
}

// CoreQueryHandler defines the contract for components that compute derived views.
// Implementations load a library snapshot and delegate to a pure projection function.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Command represents the contract for all mutating operations of the library.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that process commands with business logic.
// Handlers orchestrate the complete workflow: gate check, loading the snapshot, deciding, and writing.
// Handlers return HandlerResult containing the business outcome (idempotency) and the written document ids.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// LibrarySnapshot is one consistent read of the four collections.
type LibrarySnapshot struct {
	Collections core.Collections
	LoadedAt    time.Time

	// Stale is true when the snapshot was served from the cache because the store was unreachable.
	Stale bool
}

// LoadsLibrarySnapshot is implemented by snapshot.Loader and consumed by all query handlers.
type LoadsLibrarySnapshot interface {
	Load(ctx context.Context) (LibrarySnapshot, error)
}

// DocumentStore is the store contract the command handlers need.
// It may additionally implement docstore.AtomicWriter.
type DocumentStore = docstore.DocumentStore

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
