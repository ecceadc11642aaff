package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FakeCmdable is an in-process Cmdable for tests. Expirations are recorded
// but never applied.
type FakeCmdable struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	expires map[string]time.Duration
}

func NewFakeCmdable() *FakeCmdable {
	return &FakeCmdable{
		hashes:  make(map[string]map[string]string),
		expires: make(map[string]time.Duration),
	}
}

func (m *FakeCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *FakeCmdable) HGet(_ context.Context, key, field string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *FakeCmdable) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(values)%2 != 0 {
		return redis.NewIntResult(0, fmt.Errorf("hset: odd number of arguments"))
	}
	hash := m.hashLocked(key)
	var added int64
	for i := 0; i < len(values); i += 2 {
		field := fmt.Sprint(values[i])
		if _, exists := hash[field]; !exists {
			added++
		}
		hash[field] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(added, nil)
}

func (m *FakeCmdable) HSetNX(_ context.Context, key, field string, value any) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := m.hashLocked(key)
	if _, exists := hash[field]; exists {
		return redis.NewBoolResult(false, nil)
	}
	hash[field] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *FakeCmdable) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, field := range fields {
		if _, ok := m.hashes[key][field]; ok {
			delete(m.hashes[key], field)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (m *FakeCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hashes[key]; !ok {
		return redis.NewBoolResult(false, nil)
	}
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

// ExpiryOf returns the last expiration set on key.
func (m *FakeCmdable) ExpiryOf(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expires[key]
}

func (m *FakeCmdable) hashLocked(key string) map[string]string {
	hash, ok := m.hashes[key]
	if !ok {
		hash = make(map[string]string)
		m.hashes[key] = hash
	}
	return hash
}
