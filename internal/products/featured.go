package products

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/internal/generation"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	msgLoadFeatured    = "Failed to load featured products."
	msgNotFeatured     = "Product is not featured."
	msgUnfeatureFailed = "Failed to update featured status."

	staleViewFeatured = "featured"
)

type FeaturedState struct {
	Products []types.Product `json:"products"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
}

// FeaturedController lists featured products and lets the user unfeature
// them. Failures are reported inline only.
type FeaturedController struct {
	deps Deps
	gen  generation.Tracker

	mu    sync.Mutex
	state FeaturedState
}

func NewFeaturedController(deps Deps) *FeaturedController {
	return &FeaturedController{deps: deps, state: FeaturedState{Products: []types.Product{}}}
}

func (c *FeaturedController) State() FeaturedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Products = append([]types.Product(nil), c.state.Products...)
	return s
}

// Load fetches the featured list, keeping only entries flagged as featured.
func (c *FeaturedController) Load(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen.Next()
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	list, err := c.deps.Catalog.ListFeatured(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.gen.IsCurrent(gen) {
		c.deps.incStale(staleViewFeatured)
		return nil
	}
	c.state.Loading = false
	if err != nil {
		c.state.Error = pkgerrors.UserMessage(err, msgLoadFeatured)
		return err
	}
	featured := make([]types.Product, 0, len(list))
	for _, p := range list {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}
	c.state.Products = featured
	return nil
}

// Unfeature clears the featured flag of a listed product and removes it from
// the list on success. A product that is already not featured is removed
// locally without any request.
func (c *FeaturedController) Unfeature(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.state.Error = ""
	index := indexOf(c.state.Products, id)
	if index < 0 {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotListed)
	}
	if !c.state.Products[index].IsFeatured {
		c.state.Error = msgNotFeatured
		c.removeLocked(id)
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateInconsistency, msgNotFeatured)
	}
	c.mu.Unlock()

	if _, err := c.deps.Catalog.SetFeatured(ctx, id, false); err != nil {
		c.mu.Lock()
		c.state.Error = pkgerrors.UserMessage(err, msgUnfeatureFailed)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.removeLocked(id)
	c.mu.Unlock()
	return nil
}

func (c *FeaturedController) removeLocked(id int64) {
	kept := c.state.Products[:0:0]
	for _, p := range c.state.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.state.Products = kept
}
