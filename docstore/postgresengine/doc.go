// Package postgresengine provides a PostgreSQL implementation of the docstore interfaces.
//
// All collections share one table with a JSONB payload column, keyed by (collection, id).
// Equality predicates and ordering address top-level JSON fields of the payload.
// The store supports multiple database adapters (pgx, sql.DB, sqlx) and an optional
// read replica for eventually consistent reads.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Get, GetAll, Query, Insert, Replace, UpdateFields and Delete
//   - All-or-nothing multi-document writes in a single statement (docstore.AtomicWriter)
//   - Configurable table name, logging, metrics and tracing
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewDocumentStoreFromPGXPool(db)
//	_ = store.CreateSchema(ctx)
//
//	// With a custom table and logging
//	store, _ := postgresengine.NewDocumentStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("library_documents"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	id, _ := store.Insert(ctx, doc)
//	docs, _ := store.Query(ctx, query)
package postgresengine
