package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver registration
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/postgresengine"
)

const (
	envTestDSN     = "LIBRARY_TEST_POSTGRES_DSN"
	envAdapterType = "ADAPTER_TYPE"

	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper abstracts over the adapter-specific connection so tests only deal with the store.
type Wrapper interface {
	Store() postgresengine.DocumentStore
	TableName() string
	Close()
}

type wrapper struct {
	store     postgresengine.DocumentStore
	tableName string
	closeFn   func()
}

func (w *wrapper) Store() postgresengine.DocumentStore {
	return w.store
}

func (w *wrapper) TableName() string {
	return w.tableName
}

func (w *wrapper) Close() {
	w.closeFn()
}

// DSNOrSkip returns the test DSN or skips the test.
func DSNOrSkip(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", envTestDSN)
	}

	return dsn
}

// CreateWrapper connects with the adapter chosen by ADAPTER_TYPE and creates a fresh,
// randomly named documents table which is dropped again on Close.
func CreateWrapper(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	dsn := DSNOrSkip(t)
	ctx := context.Background()
	tableName := "documents_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	options = append([]postgresengine.Option{postgresengine.WithTableName(tableName)}, options...)

	var (
		store   postgresengine.DocumentStore
		dropFn  func(query string) error
		closeFn func()
		err     error
	)

	switch adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType {
	case typePGXPool, "":
		pool, connErr := pgxpool.New(ctx, dsn)
		require.NoError(t, connErr, "error connecting to DB pool in test setup")

		store, err = postgresengine.NewDocumentStoreFromPGXPool(pool, options...)
		dropFn = func(query string) error { _, e := pool.Exec(ctx, query); return e }
		closeFn = pool.Close

	case typeSQLDB:
		db, connErr := sql.Open("postgres", dsn)
		require.NoError(t, connErr, "error opening sql.DB in test setup")

		store, err = postgresengine.NewDocumentStoreFromSQLDB(db, options...)
		dropFn = func(query string) error { _, e := db.ExecContext(ctx, query); return e }
		closeFn = func() { _ = db.Close() }

	case typeSQLXDB:
		db, connErr := sqlx.Open("postgres", dsn)
		require.NoError(t, connErr, "error opening sqlx.DB in test setup")

		store, err = postgresengine.NewDocumentStoreFromSQLX(db, options...)
		dropFn = func(query string) error { _, e := db.ExecContext(ctx, query); return e }
		closeFn = func() { _ = db.Close() }

	default:
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}

	require.NoError(t, err, "error creating document store in test setup")
	require.NoError(t, store.CreateSchema(ctx), "error creating schema in test setup")

	return &wrapper{
		store:     store,
		tableName: tableName,
		closeFn: func() {
			_ = dropFn(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, tableName)) // best effort cleanup
			closeFn()
		},
	}
}
