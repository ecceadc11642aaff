package products

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/internal/generation"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	msgLoadProductsInline = "Failed to load products."
	msgLoadProductsToast  = "Failed to load products"
	msgLoadCategories     = "Failed to load categories"
	msgToggleFeatured     = "Failed to update featured status"
	msgDeleteFailed       = "Failed to delete product"
	msgDeleted            = "Product deleted successfully"
	msgOutOfStock         = "Product out of stock"
	msgAddToCartFailed    = "Failed to add to cart"
	msgProductNotListed   = "Product not found."
	msgNoPendingDelete    = "No product selected for deletion."

	staleViewProducts = "products"
)

// Deps are the collaborators shared by the product view controllers.
type Deps struct {
	Catalog  Catalog
	Carts    CartResolver
	Notifier Notifier
	Scope    session.Scope
	Logger   *logger.Logger
	Stale    StaleCounter
	PageSize int
}

func (d Deps) logger() *logger.Logger {
	if d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}

func (d Deps) incStale(view string) {
	if d.Stale != nil {
		d.Stale.IncStale(view)
	}
}

// ListState is the rendered state of the product list.
type ListState struct {
	Products      []types.Product      `json:"products"`
	Categories    []types.Category     `json:"categories"`
	Filters       types.ProductFilters `json:"filters"`
	SearchInput   string               `json:"search_input"`
	TotalCount    int                  `json:"total_count"`
	TotalPages    int                  `json:"total_pages"`
	HasPrev       bool                 `json:"has_prev"`
	HasNext       bool                 `json:"has_next"`
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
	PendingDelete *int64               `json:"pending_delete,omitempty"`
}

// FilterUpdate describes one filter change. Nil fields are left untouched.
// Any update except a page move resets the page to 1.
type FilterUpdate struct {
	Category      *int64
	ClearCategory bool
	Search        *string
	PageSize      *int
	Clear         bool
}

// ListController owns the product list: filters, pagination, and the
// featured/delete/add-to-cart actions.
type ListController struct {
	deps Deps
	gen  generation.Tracker

	mu    sync.Mutex
	state ListState
}

func NewListController(deps Deps) *ListController {
	c := &ListController{deps: deps}
	c.state = ListState{
		Products:   []types.Product{},
		Categories: []types.Category{},
		Filters:    c.initialFilters(),
		TotalPages: 1,
	}
	return c
}

func (c *ListController) initialFilters() types.ProductFilters {
	return types.ProductFilters{Page: 1, PageSize: pagination.NormalizePageSize(c.deps.PageSize)}
}

// State returns a copy of the current state.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ListController) snapshotLocked() ListState {
	s := c.state
	s.Products = append([]types.Product(nil), c.state.Products...)
	s.Categories = append([]types.Category(nil), c.state.Categories...)
	s.Filters = cloneFilters(c.state.Filters)
	if c.state.PendingDelete != nil {
		id := *c.state.PendingDelete
		s.PendingDelete = &id
	}
	s.HasPrev = pagination.HasPrev(s.Filters.Page)
	s.HasNext = pagination.HasNext(s.Filters.Page, s.TotalPages)
	return s
}

func cloneFilters(f types.ProductFilters) types.ProductFilters {
	out := f
	if f.Category != nil {
		category := *f.Category
		out.Category = &category
	}
	if f.Search != nil {
		search := *f.Search
		out.Search = &search
	}
	return out
}

// Mount loads categories and the first page concurrently.
func (c *ListController) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.LoadCategories(ctx) })
	g.Go(func() error { return c.Load(ctx) })
	return g.Wait()
}

// Load fetches the page described by the current filters. Only the most
// recently issued load may apply its result.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen.Next()
	filters := cloneFilters(c.state.Filters)
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	page, err := c.deps.Catalog.ListProducts(ctx, filters)

	c.mu.Lock()
	if !c.gen.IsCurrent(gen) {
		c.mu.Unlock()
		c.deps.incStale(staleViewProducts)
		return nil
	}
	c.state.Loading = false
	if err != nil {
		c.state.Error = pkgerrors.UserMessage(err, msgLoadProductsInline)
		c.mu.Unlock()
		c.deps.Notifier.Error(pkgerrors.UserMessage(err, msgLoadProductsToast))
		return err
	}
	c.state.Products = page.Results
	if c.state.Products == nil {
		c.state.Products = []types.Product{}
	}
	c.state.TotalCount = page.Count
	c.state.TotalPages = pagination.TotalPages(page.Count, filters.PageSize)
	c.mu.Unlock()
	return nil
}

// LoadCategories refreshes the category options.
func (c *ListController) LoadCategories(ctx context.Context) error {
	categories, err := c.deps.Catalog.ListCategories(ctx)

	c.mu.Lock()
	if err != nil {
		c.state.Error = pkgerrors.UserMessage(err, msgLoadCategories+".")
		c.mu.Unlock()
		c.deps.Notifier.Error(msgLoadCategories)
		return err
	}
	c.state.Categories = categories
	if c.state.Categories == nil {
		c.state.Categories = []types.Category{}
	}
	c.mu.Unlock()
	return nil
}

// ApplyFilters applies one filter change, resets the page to 1 and reloads.
func (c *ListController) ApplyFilters(ctx context.Context, update FilterUpdate) error {
	c.mu.Lock()
	if update.Clear {
		c.state.SearchInput = ""
		c.state.Filters = c.initialFilters()
	}
	if update.ClearCategory {
		c.state.Filters.Category = nil
	}
	if update.Category != nil {
		category := *update.Category
		c.state.Filters.Category = &category
	}
	if update.Search != nil {
		c.state.SearchInput = *update.Search
		c.state.Filters.Search = searchFilter(*update.Search)
	}
	if update.PageSize != nil {
		c.state.Filters.PageSize = pagination.NormalizePageSize(*update.PageSize)
	}
	c.state.Filters.Page = 1
	c.mu.Unlock()
	return c.Load(ctx)
}

func searchFilter(input string) *string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	return &input
}

// SetCategory selects a category; nil selects all categories.
func (c *ListController) SetCategory(ctx context.Context, category *int64) error {
	if category == nil {
		return c.ApplyFilters(ctx, FilterUpdate{ClearCategory: true})
	}
	return c.ApplyFilters(ctx, FilterUpdate{Category: category})
}

// SetSearchInput records typed search text without reloading.
func (c *ListController) SetSearchInput(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchInput = input
}

// SubmitSearch commits the typed search text as a filter.
func (c *ListController) SubmitSearch(ctx context.Context) error {
	c.mu.Lock()
	input := c.state.SearchInput
	c.mu.Unlock()
	return c.ApplyFilters(ctx, FilterUpdate{Search: &input})
}

func (c *ListController) SetPageSize(ctx context.Context, size int) error {
	return c.ApplyFilters(ctx, FilterUpdate{PageSize: &size})
}

// ClearFilters restores the initial filters and clears the search input.
func (c *ListController) ClearFilters(ctx context.Context) error {
	return c.ApplyFilters(ctx, FilterUpdate{Clear: true})
}

// NextPage moves forward one page; at the last page it does nothing.
func (c *ListController) NextPage(ctx context.Context) error {
	return c.movePage(ctx, pagination.Next)
}

// PrevPage moves back one page; at the first page it does nothing.
func (c *ListController) PrevPage(ctx context.Context) error {
	return c.movePage(ctx, pagination.Prev)
}

func (c *ListController) movePage(ctx context.Context, move func(current, total int) int) error {
	c.mu.Lock()
	current := c.state.Filters.Page
	next := move(current, c.state.TotalPages)
	if next == current {
		c.mu.Unlock()
		return nil
	}
	c.state.Filters.Page = next
	c.mu.Unlock()
	return c.Load(ctx)
}

// ToggleFeatured flips the featured flag on the server and, on success,
// splices the returned product into the list at its current index. Nothing
// changes locally before the server answers.
func (c *ListController) ToggleFeatured(ctx context.Context, id int64) error {
	product, ok := c.find(id)
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotListed)
		c.deps.Notifier.Error(err.Message())
		return err
	}

	updated, err := c.deps.Catalog.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		c.deps.Notifier.Error(pkgerrors.UserMessage(err, msgToggleFeatured))
		return err
	}

	c.mu.Lock()
	index := indexOf(c.state.Products, id)
	if index >= 0 {
		c.state.Products[index] = *updated
	}
	c.mu.Unlock()

	if index >= 0 {
		verb := "unfeatured"
		if updated.IsFeatured {
			verb = "featured"
		}
		c.deps.Notifier.Success("Product " + verb + " successfully")
	}
	return nil
}

// RequestDelete marks a product for deletion. Nothing is sent until
// ConfirmDelete.
func (c *ListController) RequestDelete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = &id
}

// CancelDelete drops the pending deletion.
func (c *ListController) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = nil
}

// ConfirmDelete deletes the pending product and reloads the list on success.
func (c *ListController) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.state.PendingDelete
	c.state.PendingDelete = nil
	c.mu.Unlock()

	if pending == nil {
		err := pkgerrors.New(pkgerrors.CodeStateInconsistency, msgNoPendingDelete)
		c.deps.Notifier.Error(err.Message())
		return err
	}

	if err := c.deps.Catalog.DeleteProduct(ctx, *pending); err != nil {
		c.deps.Notifier.Error(pkgerrors.UserMessage(err, msgDeleteFailed))
		return err
	}
	c.deps.Notifier.Success(msgDeleted)
	return c.Load(ctx)
}

// AddToCart adds one unit of a listed product to the client's cart and
// returns the path to navigate to. Out-of-stock products are refused before
// any request is made.
func (c *ListController) AddToCart(ctx context.Context, id int64) (string, error) {
	product, ok := c.find(id)
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotListed)
		c.deps.Notifier.Error(err.Message())
		return "", err
	}
	if !product.InStock() {
		err := pkgerrors.New(pkgerrors.CodeStateInconsistency, msgOutOfStock)
		c.deps.Notifier.Error(err.Message())
		return "", err
	}

	cartID, err := c.deps.Carts.Resolve(ctx, c.deps.Scope)
	if err != nil {
		c.deps.Notifier.Error(pkgerrors.UserMessage(err, msgAddToCartFailed))
		return "", err
	}
	if _, err := c.deps.Catalog.AddItem(ctx, cartID, product.ID, 1); err != nil {
		c.deps.Notifier.Error(pkgerrors.UserMessage(err, msgAddToCartFailed))
		return "", err
	}
	log := c.deps.logger()
	log.Debug(log.WithCartID(ctx, cartID.String()), "product added to cart")
	return navigation.Cart, nil
}

func (c *ListController) find(id int64) (types.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	index := indexOf(c.state.Products, id)
	if index < 0 {
		return types.Product{}, false
	}
	return c.state.Products[index], true
}

func indexOf(products []types.Product, id int64) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// PriorityLabel renders a priority for display.
func PriorityLabel(p enums.Priority) string {
	return p.String()
}
