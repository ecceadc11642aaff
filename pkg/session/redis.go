package session

import (
	"context"
	"fmt"

	redisclient "github.com/angelmondragon/storefront/pkg/redis"
)

type stateHashes interface {
	GetState(ctx context.Context, clientID, field string) (string, bool, error)
	SetState(ctx context.Context, clientID, field, value string) error
	SetStateNX(ctx context.Context, clientID, field, value string) (bool, error)
	DeleteState(ctx context.Context, clientID, field string) error
	Ping(ctx context.Context) error
}

// RedisStore keeps each client's state in one Redis hash.
type RedisStore struct {
	hashes stateHashes
}

func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{hashes: client}, nil
}

func (r *RedisStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	return r.hashes.GetState(ctx, clientID, key)
}

func (r *RedisStore) Set(ctx context.Context, clientID, key, value string) error {
	return r.hashes.SetState(ctx, clientID, key, value)
}

func (r *RedisStore) SetIfAbsent(ctx context.Context, clientID, key, value string) (string, bool, error) {
	for {
		written, err := r.hashes.SetStateNX(ctx, clientID, key, value)
		if err != nil {
			return "", false, err
		}
		if written {
			return value, true, nil
		}
		existing, ok, err := r.hashes.GetState(ctx, clientID, key)
		if err != nil {
			return "", false, err
		}
		if ok {
			return existing, false, nil
		}
		// deleted between HSETNX and HGET
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
	}
}

func (r *RedisStore) Delete(ctx context.Context, clientID, key string) error {
	return r.hashes.DeleteState(ctx, clientID, key)
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.hashes.Ping(ctx)
}
