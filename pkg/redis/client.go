package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "sf"
	clientPrefix = "client"
)

var errNotInitialized = errors.New("redis client not initialized")

// Cmdable is the subset of go-redis commands the client state needs. Each
// client's state lives in one hash so it can expire as a unit.
type Cmdable interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HSetNX(ctx context.Context, key, field string, value any) *redis.BoolCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Client stores per-client state hashes.
type Client struct {
	store    Cmdable
	raw      *redis.Client
	stateTTL time.Duration
}

// New connects with the configured pool and timeouts and verifies the server
// answers.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "redis_db", opts.DB), "redis connection established")
	}
	return &Client{store: raw, raw: raw, stateTTL: cfg.StateTTL}, nil
}

// NewFromCmdable wraps an existing command set, e.g. a cluster client or a fake.
func NewFromCmdable(store Cmdable, stateTTL time.Duration) *Client {
	return &Client{store: store, stateTTL: stateTTL}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}
	opts.PoolSize = firstPositive(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = firstPositive(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = firstPositive(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = firstPositive(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = firstPositive(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func firstPositive[T int | time.Duration](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	var zero T
	return zero
}

// StateKey is the hash holding every persisted value of one client.
func StateKey(clientID string) string {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return keyNamespace + ":" + clientPrefix
	}
	return strings.Join([]string{keyNamespace, clientPrefix, clientID}, ":")
}

// GetState reads one field of the client's state. Missing fields report
// ok=false without an error.
func (c *Client) GetState(ctx context.Context, clientID, field string) (string, bool, error) {
	if c.store == nil {
		return "", false, errNotInitialized
	}
	value, err := c.store.HGet(ctx, StateKey(clientID), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetState overwrites one field and refreshes the state TTL.
func (c *Client) SetState(ctx context.Context, clientID, field, value string) error {
	if c.store == nil {
		return errNotInitialized
	}
	key := StateKey(clientID)
	if err := c.store.HSet(ctx, key, field, value).Err(); err != nil {
		return err
	}
	return c.touch(ctx, key)
}

// SetStateNX writes field only when it is absent and reports whether this
// call wrote it.
func (c *Client) SetStateNX(ctx context.Context, clientID, field, value string) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	key := StateKey(clientID)
	ok, err := c.store.HSetNX(ctx, key, field, value).Result()
	if err != nil || !ok {
		return false, err
	}
	return true, c.touch(ctx, key)
}

func (c *Client) DeleteState(ctx context.Context, clientID, field string) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.HDel(ctx, StateKey(clientID), field).Err()
}

func (c *Client) touch(ctx context.Context, key string) error {
	if c.stateTTL <= 0 {
		return nil
	}
	return c.store.Expire(ctx, key, c.stateTTL).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the connection pool when this client owns one.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
