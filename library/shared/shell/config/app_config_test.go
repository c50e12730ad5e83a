package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/config"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

func Test_DefaultAppConfig_IsValidAndGrantsEverything(t *testing.T) {
	// arrange
	cfg := config.DefaultAppConfig()

	// act
	err := cfg.Validate()
	permissions, permErr := cfg.GrantedPermissions()

	// assert
	assert.NoError(t, err)
	assert.NoError(t, permErr)
	assert.ElementsMatch(t, shell.AllPermissions(), permissions)
	assert.Equal(t, core.DefaultBorrowingPolicy(), cfg.BorrowingPolicy())
	assert.Equal(t, config.StorageEngineMemory, cfg.Storage.Engine)
}

func Test_DecodeYAML_MergesOverDefaults(t *testing.T) {
	// arrange
	cfg := config.DefaultAppConfig()
	doc := `
storage:
  engine: postgres
  postgres_adapter: sqlx
redis:
  addr: localhost:6379
  ttl: 30m
access:
  permissions: [manage_borrowing]
borrowing:
  max_books_per_student: 5
`

	// act
	err := cfg.DecodeYAML(strings.NewReader(doc))

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.StorageEnginePostgres, cfg.Storage.Engine)
	assert.Equal(t, config.PostgresAdapterSQLX, cfg.Storage.PostgresAdapter)
	assert.Equal(t, config.DefaultPostgresDSN(), cfg.Storage.PostgresDSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 5, cfg.Borrowing.MaxBooksPerStudent)
	assert.Equal(t, core.DefaultBorrowDays, cfg.Borrowing.DefaultBorrowDays)

	permissions, permErr := cfg.GrantedPermissions()
	assert.NoError(t, permErr)
	assert.Equal(t, []shell.Permission{shell.PermissionManageBorrowing}, permissions)
}

func Test_DecodeYAML_RejectsUnknownKeys(t *testing.T) {
	cfg := config.DefaultAppConfig()

	err := cfg.DecodeYAML(strings.NewReader("storage:\n  engin: memory\n"))

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_DecodeYAML_IgnoresEmptyDocument(t *testing.T) {
	cfg := config.DefaultAppConfig()

	err := cfg.DecodeYAML(strings.NewReader("  \n"))

	assert.NoError(t, err)
	assert.Equal(t, config.DefaultAppConfig(), cfg)
}

func Test_ApplyEnv_OverridesFields(t *testing.T) {
	// arrange
	cfg := config.DefaultAppConfig()
	vars := map[string]string{
		"LIBRARY_STORAGE_ENGINE":        "postgres",
		"LIBRARY_POSTGRES_DSN":          " postgres://x@db/library ",
		"LIBRARY_REDIS_DB":              "2",
		"LIBRARY_REDIS_TTL":             "1h",
		"LIBRARY_PERMISSIONS":           "MANAGE_BOOKS, manage_students,,",
		"LIBRARY_OFFLINE":               "true",
		"LIBRARY_MAX_BOOKS_PER_STUDENT": "4",
		"LIBRARY_BORROW_DAYS":           "21",
		"LIBRARY_LOG_LEVEL":             "debug",
	}

	// act
	err := cfg.ApplyEnv(lookupFrom(vars))

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.StorageEnginePostgres, cfg.Storage.Engine)
	assert.Equal(t, "postgres://x@db/library", cfg.Storage.PostgresDSN)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, []string{"MANAGE_BOOKS", "manage_students"}, cfg.Access.Permissions)
	assert.True(t, cfg.Access.Offline)
	assert.Equal(t, core.BorrowingPolicy{MaxBooksPerStudent: 4, DefaultBorrowDays: 21}, cfg.BorrowingPolicy())

	level, levelErr := cfg.SlogLevel()
	assert.NoError(t, levelErr)
	assert.Equal(t, slog.LevelDebug, level)
}

func Test_ApplyEnv_RejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "int", vars: map[string]string{"LIBRARY_REDIS_DB": "two"}},
		{name: "bool", vars: map[string]string{"LIBRARY_OFFLINE": "maybe"}},
		{name: "duration", vars: map[string]string{"LIBRARY_REDIS_TTL": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAppConfig()

			err := cfg.ApplyEnv(lookupFrom(tt.vars))

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_Validate_ErrorCases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.AppConfig)
	}{
		{name: "unknown engine", mutate: func(cfg *config.AppConfig) { cfg.Storage.Engine = "sqlite" }},
		{name: "postgres without dsn", mutate: func(cfg *config.AppConfig) {
			cfg.Storage.Engine = config.StorageEnginePostgres
			cfg.Storage.PostgresDSN = ""
		}},
		{name: "unknown adapter", mutate: func(cfg *config.AppConfig) {
			cfg.Storage.Engine = config.StorageEnginePostgres
			cfg.Storage.PostgresAdapter = "gorm"
		}},
		{name: "replica without pgx", mutate: func(cfg *config.AppConfig) {
			cfg.Storage.Engine = config.StorageEnginePostgres
			cfg.Storage.PostgresAdapter = config.PostgresAdapterSQL
			cfg.Storage.PostgresReplicaDSN = "postgres://replica"
		}},
		{name: "empty table", mutate: func(cfg *config.AppConfig) {
			cfg.Storage.Engine = config.StorageEnginePostgres
			cfg.Storage.TableName = ""
		}},
		{name: "zero follow-up attempts", mutate: func(cfg *config.AppConfig) { cfg.Storage.FollowUpAttempts = 0 }},
		{name: "zero max books", mutate: func(cfg *config.AppConfig) { cfg.Borrowing.MaxBooksPerStudent = 0 }},
		{name: "zero borrow days", mutate: func(cfg *config.AppConfig) { cfg.Borrowing.DefaultBorrowDays = 0 }},
		{name: "negative ttl", mutate: func(cfg *config.AppConfig) { cfg.Redis.TTL = -time.Second }},
		{name: "unknown permission", mutate: func(cfg *config.AppConfig) { cfg.Access.Permissions = []string{"ROOT"} }},
		{name: "unknown log level", mutate: func(cfg *config.AppConfig) { cfg.Observability.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAppConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_LoadAppConfig_ReadsFileAndEnvironment(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte("borrowing:\n  default_borrow_days: 7\n"), 0o600))
	t.Setenv("LIBRARY_MAX_BOOKS_PER_STUDENT", "2")

	// act
	cfg, err := config.LoadAppConfig(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BorrowingPolicy{MaxBooksPerStudent: 2, DefaultBorrowDays: 7}, cfg.BorrowingPolicy())
}

func Test_LoadAppConfig_MissingFile(t *testing.T) {
	_, err := config.LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func Test_LoadDotEnv_LoadsFileAndIgnoresMissing(t *testing.T) {
	// arrange
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIBRARY_TEST_DOTENV_PROBE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("LIBRARY_TEST_DOTENV_PROBE") })

	// act
	err := config.LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("LIBRARY_TEST_DOTENV_PROBE"))
}

func Test_EncodeYAML_RoundTripsThroughDecode(t *testing.T) {
	// arrange
	cfg := config.DefaultAppConfig()
	cfg.Redis.TTL = 90 * time.Second

	// act
	encoded, err := cfg.EncodeYAML()
	require.NoError(t, err)

	decoded := config.AppConfig{}
	decodeErr := decoded.DecodeYAML(strings.NewReader(string(encoded)))

	// assert
	assert.NoError(t, decodeErr)
	assert.Equal(t, cfg, decoded)
}
