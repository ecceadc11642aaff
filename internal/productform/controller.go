// Package productform drives the create and edit product forms: draft
// editing, touched-field validation and submission.
package productform

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/internal/navigation"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	msgCreateFailed     = "Failed to create product."
	msgUpdateFailed     = "Failed to update product."
	msgLoadProduct      = "Failed to load product."
	msgLoadCategories   = "Failed to load categories."
	msgInvalidDraft     = "Please fix the highlighted fields."
	msgSubmitInProgress = "A submission is already in progress."
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Catalog is the slice of the catalog client the form needs.
type Catalog interface {
	ListCategories(ctx context.Context) ([]types.Category, error)
	GetProduct(ctx context.Context, id int64) (*types.Product, error)
	CreateProduct(ctx context.Context, payload types.ProductPayload) (*types.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload types.ProductPayload) (*types.Product, error)
}

// State is the rendered form. FieldErrors only holds messages for touched
// fields.
type State struct {
	Mode        Mode             `json:"mode"`
	ProductID   int64            `json:"product_id,omitempty"`
	Draft       Draft            `json:"draft"`
	FieldErrors map[Field]string `json:"field_errors"`
	Categories  []types.Category `json:"categories"`
	Ready       bool             `json:"ready"`
	Submitting  bool             `json:"submitting"`
	CanSubmit   bool             `json:"can_submit"`
	Error       string           `json:"error,omitempty"`
}

type Controller struct {
	catalog Catalog
	logg    *logger.Logger

	mu         sync.Mutex
	mode       Mode
	productID  int64
	draft      Draft
	touched    map[Field]bool
	categories []types.Category
	ready      bool
	submitting bool
	err        string
}

func newController(catalog Catalog, logg *logger.Logger, mode Mode) *Controller {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Controller{
		catalog:    catalog,
		logg:       logg,
		mode:       mode,
		draft:      EmptyDraft(),
		touched:    map[Field]bool{},
		categories: []types.Category{},
	}
}

// NewCreate builds an empty form and loads the category options. A category
// failure is reported inline; the form stays usable.
func NewCreate(ctx context.Context, catalog Catalog, logg *logger.Logger) (*Controller, error) {
	c := newController(catalog, logg, ModeCreate)
	c.ready = true
	categories, err := catalog.ListCategories(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = pkgerrors.UserMessage(err, msgLoadCategories)
		return c, err
	}
	c.setCategoriesLocked(categories)
	return c, nil
}

// NewEdit loads the categories and the product concurrently and seeds the
// draft from the product.
func NewEdit(ctx context.Context, catalog Catalog, logg *logger.Logger, id int64) (*Controller, error) {
	c := newController(catalog, logg, ModeEdit)
	c.productID = id

	var (
		categories []types.Category
		product    *types.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = catalog.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		product, err = catalog.GetProduct(gctx, id)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = pkgerrors.UserMessage(err, msgLoadProduct)
		return c, err
	}
	c.setCategoriesLocked(categories)
	c.draft = DraftFromProduct(*product)
	c.ready = true
	return c, nil
}

func (c *Controller) setCategoriesLocked(categories []types.Category) {
	if categories == nil {
		categories = []types.Category{}
	}
	c.categories = categories
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := c.draft.Errors()
	visible := make(map[Field]string, len(errs))
	for field, msg := range errs {
		if c.touched[field] {
			visible[field] = msg
		}
	}
	return State{
		Mode:        c.mode,
		ProductID:   c.productID,
		Draft:       c.draft,
		FieldErrors: visible,
		Categories:  append([]types.Category(nil), c.categories...),
		Ready:       c.ready,
		Submitting:  c.submitting,
		CanSubmit:   c.canSubmitLocked(errs),
		Error:       c.err,
	}
}

// CanSubmit is false while the draft is invalid or a submission is running.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked(c.draft.Errors())
}

func (c *Controller) canSubmitLocked(errs map[Field]string) bool {
	return c.ready && len(errs) == 0 && !c.submitting
}

// Update replaces the draft. Touched fields are kept.
func (c *Controller) Update(draft Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

// Blur marks a field as touched so its message becomes visible.
func (c *Controller) Blur(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched[field] = true
}

// Submit touches every validated field and, when the draft is valid, sends
// the create or update request. On success it returns the path to navigate
// to; on failure the draft is kept and the message is shown inline.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	for _, field := range ValidatedFields {
		c.touched[field] = true
	}
	if c.submitting {
		c.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateInconsistency, msgSubmitInProgress)
	}
	if !c.ready {
		c.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateInconsistency, msgLoadProduct)
	}
	payload, ok := c.draft.Payload()
	if !ok {
		fields := make(map[string]string)
		for field, msg := range c.draft.Errors() {
			fields[string(field)] = msg
		}
		c.mu.Unlock()
		return "", pkgerrors.Validation(msgInvalidDraft, fields)
	}
	c.submitting = true
	c.err = ""
	mode, id := c.mode, c.productID
	c.mu.Unlock()

	var (
		err      error
		fallback string
	)
	if mode == ModeEdit {
		_, err = c.catalog.UpdateProduct(ctx, id, payload)
		fallback = msgUpdateFailed
	} else {
		_, err = c.catalog.CreateProduct(ctx, payload)
		fallback = msgCreateFailed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.err = pkgerrors.UserMessage(err, fallback)
		c.logg.Warn(c.logg.WithField(ctx, "mode", string(mode)), "product form submission failed")
		return "", err
	}
	return navigation.Products, nil
}

// Cancel abandons the form.
func (c *Controller) Cancel() string {
	return navigation.Products
}
