package session

import (
	"context"
	"sync"
)

// MemoryStore keeps client state in process. State is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, clientID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.clients[clientID][key]
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(clientID)[key] = value
	return nil
}

func (m *MemoryStore) SetIfAbsent(_ context.Context, clientID, key, value string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.bucket(clientID)
	if existing, ok := bucket[key]; ok {
		return existing, false, nil
	}
	bucket[key] = value
	return value, true, nil
}

func (m *MemoryStore) Delete(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.clients[clientID]
	if !ok {
		return nil
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(m.clients, clientID)
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryStore) bucket(clientID string) map[string]string {
	bucket, ok := m.clients[clientID]
	if !ok {
		bucket = make(map[string]string)
		m.clients[clientID] = bucket
	}
	return bucket
}
