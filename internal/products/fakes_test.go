package products

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

type stubCatalog struct {
	mu    sync.Mutex
	calls map[string]int

	listProducts   func(ctx context.Context, filters types.ProductFilters) (types.Page[types.Product], error)
	listFeatured   func(ctx context.Context) ([]types.Product, error)
	getProduct     func(ctx context.Context, id int64) (*types.Product, error)
	setFeatured    func(ctx context.Context, id int64, featured bool) (*types.Product, error)
	deleteProduct  func(ctx context.Context, id int64) error
	listCategories func(ctx context.Context) ([]types.Category, error)
	addItem        func(ctx context.Context, cartID types.CartID, productID int64, quantity int) (*types.Cart, error)

	filters []types.ProductFilters
}

func (s *stubCatalog) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
}

func (s *stubCatalog) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubCatalog) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *stubCatalog) ListProducts(ctx context.Context, filters types.ProductFilters) (types.Page[types.Product], error) {
	s.record("ListProducts")
	s.mu.Lock()
	s.filters = append(s.filters, filters)
	s.mu.Unlock()
	if s.listProducts == nil {
		return types.Page[types.Product]{Results: []types.Product{}}, nil
	}
	return s.listProducts(ctx, filters)
}

func (s *stubCatalog) lastFilters() types.ProductFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters[len(s.filters)-1]
}

func (s *stubCatalog) ListFeatured(ctx context.Context) ([]types.Product, error) {
	s.record("ListFeatured")
	if s.listFeatured == nil {
		return nil, nil
	}
	return s.listFeatured(ctx)
}

func (s *stubCatalog) GetProduct(ctx context.Context, id int64) (*types.Product, error) {
	s.record("GetProduct")
	return s.getProduct(ctx, id)
}

func (s *stubCatalog) SetFeatured(ctx context.Context, id int64, featured bool) (*types.Product, error) {
	s.record("SetFeatured")
	return s.setFeatured(ctx, id, featured)
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id int64) error {
	s.record("DeleteProduct")
	return s.deleteProduct(ctx, id)
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]types.Category, error) {
	s.record("ListCategories")
	if s.listCategories == nil {
		return []types.Category{}, nil
	}
	return s.listCategories(ctx)
}

func (s *stubCatalog) AddItem(ctx context.Context, cartID types.CartID, productID int64, quantity int) (*types.Cart, error) {
	s.record("AddItem")
	return s.addItem(ctx, cartID, productID, quantity)
}

type stubResolver struct {
	mu    sync.Mutex
	id    types.CartID
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, scope session.Scope) (types.CartID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.id, s.err
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
	return "s"
}

func (n *recordingNotifier) Error(message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
	return "e"
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

type staleCounter struct {
	mu    sync.Mutex
	views map[string]int
}

func (s *staleCounter) IncStale(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.views == nil {
		s.views = map[string]int{}
	}
	s.views[view]++
}

func newDeps(catalog *stubCatalog, resolver *stubResolver, notifier *recordingNotifier) Deps {
	return Deps{
		Catalog:  catalog,
		Carts:    resolver,
		Notifier: notifier,
		Scope:    session.NewScope(session.NewMemoryStore(), "client-1"),
		PageSize: 10,
	}
}
