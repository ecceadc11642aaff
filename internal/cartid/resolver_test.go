package cartid

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

type stubCreator struct {
	calls   atomic.Int32
	nextID  atomic.Int64
	release chan struct{}
	err     error
}

func (s *stubCreator) CreateCart(ctx context.Context) (*types.Cart, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return &types.Cart{ID: types.CartID(s.nextID.Add(1))}, nil
}

func TestResolveCreatesOnceAndReusesPersistedID(t *testing.T) {
	ctx := context.Background()
	creator := &stubCreator{}
	store := session.NewMemoryStore()
	scope := session.NewScope(store, "client-1")
	resolver := NewResolver(creator, nil)

	first, err := resolver.Resolve(ctx, scope)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := resolver.Resolve(ctx, scope)
		if err != nil {
			t.Fatalf("resolve again: %v", err)
		}
		if again != first {
			t.Fatalf("expected same cart id %d, got %d", first, again)
		}
	}
	if creator.calls.Load() != 1 {
		t.Fatalf("expected one create call, got %d", creator.calls.Load())
	}
	raw, ok, _ := store.Get(ctx, "client-1", session.KeyCartID)
	if !ok || raw != first.String() {
		t.Fatalf("expected persisted id %s, got %q", first, raw)
	}
}

func TestResolvePersistedIDSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	creator := &stubCreator{}
	store := session.NewMemoryStore()
	_ = store.Set(ctx, "client-1", session.KeyCartID, "77")

	id, err := NewResolver(creator, nil).Resolve(ctx, session.NewScope(store, "client-1"))
	if err != nil || id != 77 {
		t.Fatalf("expected 77, got %d (%v)", id, err)
	}
	if creator.calls.Load() != 0 {
		t.Fatalf("expected no create call")
	}
}

func TestConcurrentFirstCallersShareOneCreation(t *testing.T) {
	ctx := context.Background()
	creator := &stubCreator{release: make(chan struct{})}
	scope := session.NewScope(session.NewMemoryStore(), "client-1")
	resolver := NewResolver(creator, nil)

	const callers = 8
	var wg sync.WaitGroup
	ids := make([]types.CartID, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := resolver.Resolve(ctx, scope)
			if err != nil {
				t.Errorf("resolve: %v", err)
			}
			ids[i] = id
		}(i)
	}
	// Give every caller time to join the in-flight creation.
	time.Sleep(50 * time.Millisecond)
	close(creator.release)
	wg.Wait()

	if creator.calls.Load() != 1 {
		t.Fatalf("expected exactly one creation, got %d", creator.calls.Load())
	}
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("callers received different ids: %v", ids)
		}
	}
}

func TestSeparateResolversAdoptStoredID(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	scope := session.NewScope(store, "client-1")

	// Two processes racing: both create, the second adopts the first's id.
	a := NewResolver(&stubCreator{}, nil)
	bCreator := &stubCreator{}
	bCreator.nextID.Store(100)
	b := NewResolver(bCreator, nil)

	first, err := a.Resolve(ctx, scope)
	if err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	id, err := b.create(ctx, session.NewScope(&racingStore{Store: store, hideOnce: true}, "client-1"))
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if id != first {
		t.Fatalf("expected adopted id %d, got %d", first, id)
	}
}

// racingStore hides the stored value from the first Get, simulating a writer
// that committed between our read and our write.
type racingStore struct {
	session.Store
	hideOnce bool
}

func (r *racingStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	if r.hideOnce {
		r.hideOnce = false
		return "", false, nil
	}
	return r.Store.Get(ctx, clientID, key)
}

func TestResolveSurfacesRemoteError(t *testing.T) {
	remote := pkgerrors.New(pkgerrors.CodeRemote, "Request failed with status code 500")
	creator := &stubCreator{err: remote}
	store := session.NewMemoryStore()
	_, err := NewResolver(creator, nil).Resolve(context.Background(), session.NewScope(store, "c"))
	if !errors.Is(err, remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "c", session.KeyCartID); ok {
		t.Fatalf("nothing should be persisted on failure")
	}
}

func TestInvalidPersistedIDIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	_ = store.Set(ctx, "c", session.KeyCartID, "not-a-number")
	id, err := NewResolver(&stubCreator{}, nil).Resolve(ctx, session.NewScope(store, "c"))
	if err != nil || id != 1 {
		t.Fatalf("expected fresh cart 1, got %d (%v)", id, err)
	}
}

func TestClearForcesNewCart(t *testing.T) {
	ctx := context.Background()
	creator := &stubCreator{}
	scope := session.NewScope(session.NewMemoryStore(), "c")
	resolver := NewResolver(creator, nil)

	first, _ := resolver.Resolve(ctx, scope)
	if err := resolver.Clear(ctx, scope); err != nil {
		t.Fatalf("clear: %v", err)
	}
	second, _ := resolver.Resolve(ctx, scope)
	if first == second || creator.calls.Load() != 2 {
		t.Fatalf("expected a new cart after clear: %d %d calls=%d", first, second, creator.calls.Load())
	}
}
