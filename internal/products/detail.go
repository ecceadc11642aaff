package products

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/internal/generation"
	"github.com/angelmondragon/storefront/internal/navigation"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	msgLoadProduct      = "Failed to load product"
	msgExceedsStock     = "Requested quantity exceeds available stock"
	msgQuantityTooSmall = "Quantity must be >= 1"
	msgProductNotLoaded = "Product not loaded."
	msgAddedToCart      = "Added to cart successfully"

	staleViewDetail = "product_detail"
)

type DetailState struct {
	Product  *types.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
}

// DetailController shows one product and adds a chosen quantity to the cart.
type DetailController struct {
	deps Deps
	gen  generation.Tracker

	mu    sync.Mutex
	state DetailState
}

func NewDetailController(deps Deps) *DetailController {
	return &DetailController{deps: deps, state: DetailState{Quantity: 1}}
}

func (c *DetailController) State() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if c.state.Product != nil {
		product := *c.state.Product
		s.Product = &product
	}
	return s
}

func (c *DetailController) Load(ctx context.Context, id int64) error {
	c.mu.Lock()
	gen := c.gen.Next()
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	product, err := c.deps.Catalog.GetProduct(ctx, id)

	c.mu.Lock()
	if !c.gen.IsCurrent(gen) {
		c.mu.Unlock()
		c.deps.incStale(staleViewDetail)
		return nil
	}
	c.state.Loading = false
	if err != nil {
		msg := pkgerrors.UserMessage(err, msgLoadProduct)
		c.state.Error = msg
		c.mu.Unlock()
		c.deps.Notifier.Error(msg)
		return err
	}
	c.state.Product = product
	c.mu.Unlock()
	return nil
}

func (c *DetailController) SetQuantity(quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Quantity = quantity
}

// AddToCart adds the selected quantity and returns the path to navigate to.
// Quantities above the available stock are refused before any request.
func (c *DetailController) AddToCart(ctx context.Context) (string, error) {
	c.mu.Lock()
	c.state.Error = ""
	quantity := c.state.Quantity
	var product types.Product
	loaded := c.state.Product != nil
	if loaded {
		product = *c.state.Product
	}
	c.mu.Unlock()

	switch {
	case !loaded:
		return "", c.fail(pkgerrors.New(pkgerrors.CodeStateInconsistency, msgProductNotLoaded), "")
	case quantity > product.Quantity:
		return "", c.fail(pkgerrors.New(pkgerrors.CodeStateInconsistency, msgExceedsStock), "")
	case quantity < 1:
		return "", c.fail(pkgerrors.New(pkgerrors.CodeStateInconsistency, msgQuantityTooSmall), "")
	}

	cartID, err := c.deps.Carts.Resolve(ctx, c.deps.Scope)
	if err != nil {
		return "", c.fail(err, msgAddToCartFailed)
	}
	if _, err := c.deps.Catalog.AddItem(ctx, cartID, product.ID, quantity); err != nil {
		return "", c.fail(err, msgAddToCartFailed)
	}
	c.deps.Notifier.Success(msgAddedToCart)
	return navigation.Cart, nil
}

// fail records err inline and as a notification, then returns it.
func (c *DetailController) fail(err error, fallback string) error {
	msg := pkgerrors.UserMessage(err, fallback)
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
	c.deps.Notifier.Error(msg)
	return err
}
