// Package cartview renders the client's cart and applies quantity and
// removal changes, always reloading the server copy afterwards.
package cartview

import (
	"context"
	"net/http"
	"sync"

	"github.com/angelmondragon/storefront/internal/generation"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	msgLoadCart   = "Failed to load cart"
	msgUpdateItem = "Failed to update item"
	msgRemoveItem = "Failed to remove item"

	staleView = "cart"
)

type Catalog interface {
	GetCart(ctx context.Context, id types.CartID) (*types.Cart, error)
	UpdateItem(ctx context.Context, cartID types.CartID, itemID int64, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, cartID types.CartID, itemID int64) error
}

type Resolver interface {
	Resolve(ctx context.Context, scope session.Scope) (types.CartID, error)
	Clear(ctx context.Context, scope session.Scope) error
}

type Notifier interface {
	Error(message string) string
}

type StaleCounter interface {
	IncStale(view string)
}

type Deps struct {
	Catalog  Catalog
	Carts    Resolver
	Notifier Notifier
	Scope    session.Scope
	Logger   *logger.Logger
	Stale    StaleCounter
}

// Line is one cart item prepared for display.
type Line struct {
	ItemID       int64           `json:"item_id"`
	ProductID    int64           `json:"product_id"`
	Title        string          `json:"title"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type State struct {
	CartID  types.CartID    `json:"cart_id,omitempty"`
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Empty   bool            `json:"empty"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
}

// Controller owns the cart view. The last successfully loaded cart is kept
// whenever a later request fails.
type Controller struct {
	deps Deps
	gen  generation.Tracker

	mu      sync.Mutex
	cartID  types.CartID
	cart    *types.Cart
	loading bool
	err     string
}

func NewController(deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Controller{deps: deps}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		CartID:  c.cartID,
		Lines:   []Line{},
		Empty:   c.cart.IsEmpty(),
		Loading: c.loading,
		Error:   c.err,
	}
	if c.cart != nil {
		s.Total = c.cart.Total
		for _, item := range c.cart.Items {
			s.Lines = append(s.Lines, Line{
				ItemID:       item.ID,
				ProductID:    item.Product.ID,
				Title:        item.Product.Title,
				CategoryName: item.Product.CategoryName,
				Price:        item.Product.Price,
				Quantity:     item.Quantity,
				Subtotal:     item.Subtotal(),
			})
		}
	}
	return s
}

// Mount is the first load of the view.
func (c *Controller) Mount(ctx context.Context) error {
	return c.Load(ctx)
}

// Load resolves the cart id, creating the cart when none is stored, and
// fetches the cart.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen.Next()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	cartID, cart, err := c.fetch(ctx)
	if cartGone(err) {
		// The stored id points at a cart the server no longer has.
		if err = c.deps.Carts.Clear(ctx, c.deps.Scope); err == nil {
			cartID, cart, err = c.fetch(ctx)
		}
	}

	c.mu.Lock()
	if !c.gen.IsCurrent(gen) {
		c.mu.Unlock()
		if c.deps.Stale != nil {
			c.deps.Stale.IncStale(staleView)
		}
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return c.fail(ctx, err, msgLoadCart)
	}
	c.cartID = cartID
	c.cart = cart
	c.mu.Unlock()
	return nil
}

func (c *Controller) fetch(ctx context.Context) (types.CartID, *types.Cart, error) {
	cartID, err := c.deps.Carts.Resolve(ctx, c.deps.Scope)
	if err != nil {
		return 0, nil, err
	}
	cart, err := c.deps.Catalog.GetCart(ctx, cartID)
	return cartID, cart, err
}

func cartGone(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRemote {
		return false
	}
	details, ok := typed.Details().(pkgerrors.RemoteDetails)
	return ok && details.Status == http.StatusNotFound
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are ignored.
func (c *Controller) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}
	cartID, err := c.begin(ctx)
	if err == nil {
		_, err = c.deps.Catalog.UpdateItem(ctx, cartID, itemID, quantity)
	}
	if err != nil {
		c.finish()
		return c.fail(ctx, err, msgUpdateItem)
	}
	return c.Load(ctx)
}

// Remove deletes a line from the cart.
func (c *Controller) Remove(ctx context.Context, itemID int64) error {
	cartID, err := c.begin(ctx)
	if err == nil {
		err = c.deps.Catalog.RemoveItem(ctx, cartID, itemID)
	}
	if err != nil {
		c.finish()
		return c.fail(ctx, err, msgRemoveItem)
	}
	return c.Load(ctx)
}

// Clear forgets the stored cart id; the next load starts a new cart.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.deps.Carts.Clear(ctx, c.deps.Scope); err != nil {
		return c.fail(ctx, err, msgLoadCart)
	}
	c.mu.Lock()
	c.cartID = 0
	c.cart = nil
	c.err = ""
	c.mu.Unlock()
	return nil
}

// begin marks the view loading and returns the cart id to mutate.
func (c *Controller) begin(ctx context.Context) (types.CartID, error) {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	cartID := c.cartID
	c.mu.Unlock()
	if cartID != 0 {
		return cartID, nil
	}
	return c.deps.Carts.Resolve(ctx, c.deps.Scope)
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *Controller) fail(ctx context.Context, err error, fallback string) error {
	msg := pkgerrors.UserMessage(err, fallback)
	c.mu.Lock()
	c.err = msg
	cartID := c.cartID
	c.mu.Unlock()
	log := c.deps.Logger
	log.Warn(log.WithCartID(ctx, cartID.String()), msg)
	c.deps.Notifier.Error(msg)
	return err
}
