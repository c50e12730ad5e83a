// Package postgreswrapper hands out a postgresengine.DocumentStore backed by a real PostgreSQL
// database for integration tests.
//
// Tests are skipped unless LIBRARY_TEST_POSTGRES_DSN is set. ADAPTER_TYPE selects the database
// adapter: "pgx.pool" (default), "sql.db" or "sqlx.db".
package postgreswrapper
