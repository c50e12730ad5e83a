// Package memengine provides an in-memory docstore.DocumentStore and docstore.SnapshotCache.
//
// The store follows the query semantics of the PostgreSQL engine: predicates compare the
// text form of top-level JSON fields, results without explicit ordering come back ordered by id.
// It does not implement docstore.AtomicWriter, every write stands on its own.
//
// It is meant for tests, demos and the local mode of the CLI. Data is lost when the process exits.
package memengine
