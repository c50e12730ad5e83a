// Package config provides the application configuration of the library lending core.
//
// AppConfig is read from a YAML file, then overridden by LIBRARY_* environment variables
// (optionally loaded from a .env file). The package also contains factory functions for
// PostgreSQL connections using the three supported drivers (pgx.Pool, sql.DB, sqlx.DB)
// and the OpenTelemetry provider setup used by the CLI.
//
// This package is part of the shell (infrastructure) layer.
package config
