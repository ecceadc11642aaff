package session

import (
	"context"
	"errors"
	"strings"
)

// Keys of the persisted client state.
const (
	KeyCartID    = "cart_id"
	KeyAuthToken = "auth_token"
)

var errClientIDRequired = errors.New("client id is required")

// Store persists small per-client values across requests and restarts.
type Store interface {
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	// SetIfAbsent stores value only when key is unset. It returns the value
	// now stored and whether this call wrote it.
	SetIfAbsent(ctx context.Context, clientID, key, value string) (string, bool, error)
	Delete(ctx context.Context, clientID, key string) error
	Ping(ctx context.Context) error
}

// Scope binds a Store to one client. Controllers receive a Scope instead of
// reaching for ambient storage.
type Scope struct {
	store    Store
	clientID string
}

func NewScope(store Store, clientID string) Scope {
	return Scope{store: store, clientID: strings.TrimSpace(clientID)}
}

func (s Scope) ClientID() string {
	return s.clientID
}

func (s Scope) Get(ctx context.Context, key string) (string, bool, error) {
	if s.clientID == "" {
		return "", false, errClientIDRequired
	}
	return s.store.Get(ctx, s.clientID, key)
}

func (s Scope) Set(ctx context.Context, key, value string) error {
	if s.clientID == "" {
		return errClientIDRequired
	}
	return s.store.Set(ctx, s.clientID, key, value)
}

func (s Scope) SetIfAbsent(ctx context.Context, key, value string) (string, bool, error) {
	if s.clientID == "" {
		return "", false, errClientIDRequired
	}
	return s.store.SetIfAbsent(ctx, s.clientID, key, value)
}

func (s Scope) Delete(ctx context.Context, key string) error {
	if s.clientID == "" {
		return errClientIDRequired
	}
	return s.store.Delete(ctx, s.clientID, key)
}
