package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

const (
	defaultKeyPrefix = "library:snapshot:"
	fieldData        = "data"
	fieldCreatedAt   = "created_at"
)

// ClientOptions mirrors the connection settings the application config carries for Redis.
type ClientOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewClient creates a go-redis client with the pool and timeout settings used across the application.
func NewClient(options ClientOptions) *redis.Client {
	poolSize := options.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	return redis.NewClient(&redis.Options{
		Addr:         options.Addr,
		Password:     options.Password,
		DB:           options.DB,
		PoolSize:     poolSize,
		MinIdleConns: 1,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// SnapshotCache implements docstore.SnapshotCache with Redis hashes.
type SnapshotCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// Option configures a SnapshotCache.
type Option func(*SnapshotCache)

// WithKeyPrefix replaces the default key prefix "library:snapshot:".
func WithKeyPrefix(prefix string) Option {
	return func(c *SnapshotCache) {
		c.keyPrefix = prefix
	}
}

// WithTTL makes saved snapshots expire. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *SnapshotCache) {
		c.ttl = ttl
	}
}

// NewSnapshotCache creates a SnapshotCache. The client must not be nil.
func NewSnapshotCache(client redis.UniversalClient, options ...Option) (*SnapshotCache, error) {
	if client == nil {
		return nil, errors.New("redis client must not be nil")
	}

	c := &SnapshotCache{client: client, keyPrefix: defaultKeyPrefix}
	for _, option := range options {
		option(c)
	}

	return c, nil
}

// Ping checks that Redis answers.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (c *SnapshotCache) SaveSnapshot(ctx context.Context, snapshot docstore.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	key := c.keyPrefix + snapshot.Name

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldData, []byte(snapshot.Data),
			fieldCreatedAt, strconv.FormatInt(snapshot.CreatedAt.UnixNano(), 10),
		)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.Join(docstore.ErrSavingSnapshotFailed, err)
	}

	return nil
}

// LoadSnapshot returns nil without error when nothing is cached under that name.
func (c *SnapshotCache) LoadSnapshot(ctx context.Context, name string) (*docstore.Snapshot, error) {
	if name == "" {
		return nil, docstore.ErrEmptySnapshotName
	}

	values, err := c.client.HGetAll(ctx, c.keyPrefix+name).Result()
	if err != nil {
		return nil, errors.Join(docstore.ErrLoadingSnapshotFailed, err)
	}

	data, ok := values[fieldData]
	if !ok {
		return nil, nil //nolint:nilnil // a miss is not an error
	}

	createdAtNanos, err := strconv.ParseInt(values[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, errors.Join(docstore.ErrLoadingSnapshotFailed, err)
	}

	snapshot, err := docstore.BuildSnapshot(name, []byte(data), time.Unix(0, createdAtNanos).UTC())
	if err != nil {
		return nil, errors.Join(docstore.ErrLoadingSnapshotFailed, err)
	}

	return &snapshot, nil
}

var _ docstore.SnapshotCache = (*SnapshotCache)(nil)
