// Package adapters provides the database adapter implementations for the PostgreSQL document store.
//
// The document store works with pgxpool.Pool, sql.DB (lib/pq) and sqlx.DB. Each adapter
// wraps one of them behind the DBAdapter interface, so the store only deals with plain
// SQL strings, rows and results.
package adapters
