package session

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	redisclient "github.com/angelmondragon/storefront/pkg/redis"
)

// Open builds the store selected by cfg.Store.Driver. The returned close
// function releases the backing connection and is never nil.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		return NewMemoryStore(), noop, nil
	case config.StoreDriverRedis:
		client, err := redisclient.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, noop, err
		}
		store, err := NewRedisStore(client)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, client.Close, nil
	case config.StoreDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, noop, err
		}
		store := NewSQLStore(client)
		if err := store.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("migrating client state: %w", err)
		}
		return store, client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
