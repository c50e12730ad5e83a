package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// Storage engines.
const (
	StorageEngineMemory   = "memory"
	StorageEnginePostgres = "postgres"
)

// Postgres adapters.
const (
	PostgresAdapterPGX  = "pgx"
	PostgresAdapterSQL  = "sql"
	PostgresAdapterSQLX = "sqlx"
)

const (
	envStorageEngine       = "LIBRARY_STORAGE_ENGINE"
	envPostgresDSN         = "LIBRARY_POSTGRES_DSN"
	envPostgresReplicaDSN  = "LIBRARY_POSTGRES_REPLICA_DSN"
	envPostgresAdapter     = "LIBRARY_POSTGRES_ADAPTER"
	envPostgresTable       = "LIBRARY_POSTGRES_TABLE"
	envRedisAddr           = "LIBRARY_REDIS_ADDR"
	envRedisPassword       = "LIBRARY_REDIS_PASSWORD"
	envRedisDB             = "LIBRARY_REDIS_DB"
	envRedisKeyPrefix      = "LIBRARY_REDIS_PREFIX"
	envRedisTTL            = "LIBRARY_REDIS_TTL"
	envPermissions         = "LIBRARY_PERMISSIONS"
	envOffline             = "LIBRARY_OFFLINE"
	envMaxBooksPerStudent  = "LIBRARY_MAX_BOOKS_PER_STUDENT"
	envBorrowDays          = "LIBRARY_BORROW_DAYS"
	envFollowUpAttempts    = "LIBRARY_FOLLOW_UP_ATTEMPTS"
	envServiceName         = "LIBRARY_SERVICE_NAME"
	envLogLevel            = "LIBRARY_LOG_LEVEL"
	envOTelEnabled         = "LIBRARY_OTEL_ENABLED"
	envOTelTraceEndpoint   = "LIBRARY_OTEL_TRACE_ENDPOINT"
	envOTelMetricsEndpoint = "LIBRARY_OTEL_METRICS_ENDPOINT"

	defaultTableName       = "library_documents"
	defaultRedisKeyPrefix  = "library:snapshot:"
	defaultServiceName     = "library-lending"
	defaultLogLevel        = "info"
	defaultTraceEndpoint   = "localhost:4317"
	defaultMetricsEndpoint = "localhost:4317"
)

// ErrInvalidConfig is returned when the loaded configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// AppConfig is the complete runtime configuration of the CLI.
type AppConfig struct {
	Storage       StorageConfig       `yaml:"storage"`
	Redis         RedisConfig         `yaml:"redis"`
	Access        AccessConfig        `yaml:"access"`
	Borrowing     BorrowingConfig     `yaml:"borrowing"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig selects and configures the document store.
type StorageConfig struct {
	Engine             string `yaml:"engine"`
	PostgresDSN        string `yaml:"postgres_dsn"`
	PostgresReplicaDSN string `yaml:"postgres_replica_dsn"`
	PostgresAdapter    string `yaml:"postgres_adapter"`
	TableName          string `yaml:"table_name"`

	// FollowUpAttempts bounds the attempts of the copy write that follows a loan write on stores
	// without atomic writes. 1 means the copy write is not retried.
	FollowUpAttempts int `yaml:"follow_up_attempts"`
}

// RedisConfig configures the snapshot cache. An empty Addr disables Redis.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// AccessConfig holds the permissions granted to the operator and the connectivity override.
type AccessConfig struct {
	Permissions []string `yaml:"permissions"`
	Offline     bool     `yaml:"offline"`
}

// BorrowingConfig holds the lending limits.
type BorrowingConfig struct {
	MaxBooksPerStudent int `yaml:"max_books_per_student"`
	DefaultBorrowDays  int `yaml:"default_borrow_days"`
}

// ObservabilityConfig configures logging and the OpenTelemetry exporters.
type ObservabilityConfig struct {
	ServiceName     string `yaml:"service_name"`
	LogLevel        string `yaml:"log_level"`
	OTelEnabled     bool   `yaml:"otel_enabled"`
	TraceEndpoint   string `yaml:"trace_endpoint"`
	MetricsEndpoint string `yaml:"metrics_endpoint"`
}

// DefaultAppConfig returns a configuration that runs fully in memory with every permission granted.
func DefaultAppConfig() AppConfig {
	policy := core.DefaultBorrowingPolicy()

	permissions := make([]string, 0, len(shell.AllPermissions()))
	for _, permission := range shell.AllPermissions() {
		permissions = append(permissions, string(permission))
	}

	return AppConfig{
		Storage: StorageConfig{
			Engine:           StorageEngineMemory,
			PostgresDSN:      DefaultPostgresDSN(),
			PostgresAdapter:  PostgresAdapterPGX,
			TableName:        defaultTableName,
			FollowUpAttempts: 1,
		},
		Redis: RedisConfig{
			KeyPrefix: defaultRedisKeyPrefix,
		},
		Access: AccessConfig{
			Permissions: permissions,
		},
		Borrowing: BorrowingConfig{
			MaxBooksPerStudent: policy.MaxBooksPerStudent,
			DefaultBorrowDays:  policy.DefaultBorrowDays,
		},
		Observability: ObservabilityConfig{
			ServiceName:     defaultServiceName,
			LogLevel:        defaultLogLevel,
			TraceEndpoint:   defaultTraceEndpoint,
			MetricsEndpoint: defaultMetricsEndpoint,
		},
	}
}

// LoadDotEnv loads environment variables from the given .env files (default ".env").
// Missing files are ignored, variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// LoadAppConfig builds the configuration from the defaults, the optional YAML file at path
// and the LIBRARY_* environment variables, in that order.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("failed to open config file: %w", err)
		}
		defer func() { _ = file.Close() }()

		if decodeErr := cfg.DecodeYAML(file); decodeErr != nil {
			return AppConfig{}, decodeErr
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return AppConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// DecodeYAML merges the YAML document from r into cfg. Unknown keys are rejected.
func (cfg *AppConfig) DecodeYAML(r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if decodeErr := decoder.Decode(cfg); decodeErr != nil {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("failed to decode yaml: %w", decodeErr))
	}

	return nil
}

// EncodeYAML renders the configuration as YAML.
func (cfg AppConfig) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(cfg)
}

// ApplyEnv overrides fields with the LIBRARY_* variables found by lookup.
func (cfg *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	stringVars := map[string]*string{
		envStorageEngine:       &cfg.Storage.Engine,
		envPostgresDSN:         &cfg.Storage.PostgresDSN,
		envPostgresReplicaDSN:  &cfg.Storage.PostgresReplicaDSN,
		envPostgresAdapter:     &cfg.Storage.PostgresAdapter,
		envPostgresTable:       &cfg.Storage.TableName,
		envRedisAddr:           &cfg.Redis.Addr,
		envRedisPassword:       &cfg.Redis.Password,
		envRedisKeyPrefix:      &cfg.Redis.KeyPrefix,
		envServiceName:         &cfg.Observability.ServiceName,
		envLogLevel:            &cfg.Observability.LogLevel,
		envOTelTraceEndpoint:   &cfg.Observability.TraceEndpoint,
		envOTelMetricsEndpoint: &cfg.Observability.MetricsEndpoint,
	}
	for name, target := range stringVars {
		if value, ok := lookup(name); ok {
			*target = strings.TrimSpace(value)
		}
	}

	intVars := map[string]*int{
		envRedisDB:            &cfg.Redis.DB,
		envMaxBooksPerStudent: &cfg.Borrowing.MaxBooksPerStudent,
		envBorrowDays:         &cfg.Borrowing.DefaultBorrowDays,
		envFollowUpAttempts:   &cfg.Storage.FollowUpAttempts,
	}
	for name, target := range intVars {
		value, ok := lookup(name)
		if !ok {
			continue
		}

		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("%s: %w", name, err))
		}
		*target = parsed
	}

	boolVars := map[string]*bool{
		envOffline:     &cfg.Access.Offline,
		envOTelEnabled: &cfg.Observability.OTelEnabled,
	}
	for name, target := range boolVars {
		value, ok := lookup(name)
		if !ok {
			continue
		}

		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("%s: %w", name, err))
		}
		*target = parsed
	}

	if value, ok := lookup(envRedisTTL); ok {
		ttl, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("%s: %w", envRedisTTL, err))
		}
		cfg.Redis.TTL = ttl
	}

	if value, ok := lookup(envPermissions); ok {
		cfg.Access.Permissions = splitList(value)
	}

	return nil
}

// Validate checks the configuration for values the application cannot work with.
func (cfg AppConfig) Validate() error {
	switch cfg.Storage.Engine {
	case StorageEngineMemory:
	case StorageEnginePostgres:
		if cfg.Storage.PostgresDSN == "" {
			return errors.Join(ErrInvalidConfig, errors.New("postgres engine requires a dsn"))
		}

		switch cfg.Storage.PostgresAdapter {
		case PostgresAdapterPGX, PostgresAdapterSQL, PostgresAdapterSQLX:
		default:
			return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown postgres adapter %q", cfg.Storage.PostgresAdapter))
		}

		if cfg.Storage.PostgresReplicaDSN != "" && cfg.Storage.PostgresAdapter != PostgresAdapterPGX {
			return errors.Join(ErrInvalidConfig, errors.New("a read replica is only supported with the pgx adapter"))
		}

		if cfg.Storage.TableName == "" {
			return errors.Join(ErrInvalidConfig, errors.New("table name must not be empty"))
		}
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine))
	}

	if cfg.Storage.FollowUpAttempts < 1 {
		return errors.Join(ErrInvalidConfig, errors.New("follow-up attempts must be at least 1"))
	}

	if cfg.Borrowing.MaxBooksPerStudent < 1 {
		return errors.Join(ErrInvalidConfig, errors.New("max books per student must be at least 1"))
	}

	if cfg.Borrowing.DefaultBorrowDays < 1 {
		return errors.Join(ErrInvalidConfig, errors.New("default borrow days must be at least 1"))
	}

	if cfg.Redis.TTL < 0 {
		return errors.Join(ErrInvalidConfig, errors.New("redis ttl must not be negative"))
	}

	if _, err := cfg.GrantedPermissions(); err != nil {
		return err
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// BorrowingPolicy returns the lending limits as a domain policy.
func (cfg AppConfig) BorrowingPolicy() core.BorrowingPolicy {
	return core.BorrowingPolicy{
		MaxBooksPerStudent: cfg.Borrowing.MaxBooksPerStudent,
		DefaultBorrowDays:  cfg.Borrowing.DefaultBorrowDays,
	}
}

// GrantedPermissions parses the configured permission names.
func (cfg AppConfig) GrantedPermissions() ([]shell.Permission, error) {
	permissions := make([]shell.Permission, 0, len(cfg.Access.Permissions))

	for _, name := range cfg.Access.Permissions {
		permission, err := shell.ParsePermission(name)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		permissions = append(permissions, permission)
	}

	return permissions, nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (cfg AppConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(cfg.Observability.LogLevel)); err != nil {
		return slog.LevelInfo, errors.Join(ErrInvalidConfig, err)
	}

	return level, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}

	return items
}
