package products

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Catalog is the slice of the catalog client used by the product views.
type Catalog interface {
	ListProducts(ctx context.Context, filters types.ProductFilters) (types.Page[types.Product], error)
	ListFeatured(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, id int64) (*types.Product, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (*types.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]types.Category, error)
	AddItem(ctx context.Context, cartID types.CartID, productID int64, quantity int) (*types.Cart, error)
}

// CartResolver yields the client's cart id, creating the cart on first use.
type CartResolver interface {
	Resolve(ctx context.Context, scope session.Scope) (types.CartID, error)
}

// Notifier receives user-facing transient messages.
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// StaleCounter counts completions dropped because a newer load was issued.
type StaleCounter interface {
	IncStale(view string)
}
