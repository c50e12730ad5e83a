package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/docstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/docstore/rediscache"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/config"
)

const (
	storePingTimeout = 2 * time.Second
	redisPoolSize    = 4
)

// ErrSchemaUnsupported is returned by migrate for engines without a schema.
var ErrSchemaUnsupported = errors.New("the configured storage engine has no schema to create")

// storage is the opened document store together with what is needed to close it.
type storage struct {
	store        shell.DocumentStore
	connectivity shell.ConnectivitySignal
	createSchema func(ctx context.Context) error
	closers      []func() error
}

func openStorage(ctx context.Context, cfg config.AppConfig, obs *observability) (*storage, error) {
	switch cfg.Storage.Engine {
	case config.StorageEnginePostgres:
		return openPostgres(ctx, cfg, obs)
	default:
		store := memengine.NewDocumentStore()

		return &storage{
			store:        store,
			connectivity: shell.NewConnectivityFlag(!cfg.Access.Offline),
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg config.AppConfig, obs *observability) (*storage, error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.Storage.TableName),
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.contextualLogger),
	}

	if obs.metrics != nil {
		options = append(options, postgresengine.WithMetrics(obs.metrics))
	}

	if obs.tracing != nil {
		options = append(options, postgresengine.WithTracing(obs.tracing))
	}

	opened := &storage{}

	var store postgresengine.DocumentStore

	switch cfg.Storage.PostgresAdapter {
	case config.PostgresAdapterSQL:
		db, err := config.PostgresSQLDB(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		opened.closers = append(opened.closers, db.Close)

		if store, err = postgresengine.NewDocumentStoreFromSQLDB(db, options...); err != nil {
			return nil, errors.Join(err, opened.close())
		}

	case config.PostgresAdapterSQLX:
		db, err := config.PostgresSQLXDB(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		opened.closers = append(opened.closers, db.Close)

		if store, err = postgresengine.NewDocumentStoreFromSQLX(db, options...); err != nil {
			return nil, errors.Join(err, opened.close())
		}

	default:
		primary, err := config.NewPGXPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		opened.closers = append(opened.closers, func() error { primary.Close(); return nil })

		if cfg.Storage.PostgresReplicaDSN == "" {
			store, err = postgresengine.NewDocumentStoreFromPGXPool(primary, options...)
		} else {
			replica, replicaErr := config.NewPGXPool(ctx, cfg.Storage.PostgresReplicaDSN)
			if replicaErr != nil {
				return nil, errors.Join(replicaErr, opened.close())
			}
			opened.closers = append(opened.closers, func() error { replica.Close(); return nil })

			store, err = postgresengine.NewDocumentStoreFromPGXPoolAndReplica(primary, replica, options...)
		}

		if err != nil {
			return nil, errors.Join(err, opened.close())
		}
	}

	opened.store = store
	opened.createSchema = store.CreateSchema

	if cfg.Access.Offline {
		opened.connectivity = shell.NewConnectivityFlag(false)
	} else {
		opened.connectivity = shell.NewStorePingProbe(store, storePingTimeout)
	}

	return opened, nil
}

// openSnapshotCache returns the Redis cache when an address is configured, else an in-process cache.
func openSnapshotCache(ctx context.Context, cfg config.RedisConfig) (docstore.SnapshotCache, func() error, error) {
	if cfg.Addr == "" {
		return memengine.NewSnapshotCache(), func() error { return nil }, nil
	}

	client := rediscache.NewClient(rediscache.ClientOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: redisPoolSize,
	})

	cache, err := rediscache.NewSnapshotCache(client, rediscache.WithKeyPrefix(cfg.KeyPrefix), rediscache.WithTTL(cfg.TTL))
	if err != nil {
		return nil, nil, errors.Join(err, client.Close())
	}

	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	if err := cache.Ping(pingCtx); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("failed to reach redis at %s: %w", cfg.Addr, err), client.Close())
	}

	return cache, client.Close, nil
}

func (s *storage) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil

	return errors.Join(errs...)
}
