package adapters

import "context"

// DBAdapter defines the database operations needed by the document store.
// Query is used for reads and for statements that return rows (RETURNING, CTE batches),
// Exec for writes where only the affected row count matters.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	QueryPrimary(ctx context.Context, query string) (DBRows, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
