package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cartview"
	"github.com/angelmondragon/storefront/internal/notify"
	"github.com/angelmondragon/storefront/internal/productform"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

// Catalog is everything the per-client controllers call on the catalog API.
type Catalog interface {
	products.Catalog
	productform.Catalog
	cartview.Catalog
}

// Workspace is the view state of one browser client. The list, featured and
// cart views live as long as the workspace; detail and form views are
// replaced whenever a different product is opened.
type Workspace struct {
	ClientID string
	Notifier *notify.Notifier
	Products *products.ListController
	Featured *products.FeaturedController
	Cart     *cartview.Controller

	catalog  Catalog
	deps     products.Deps
	logg     *logger.Logger
	lastSeen time.Time
	unsub    []func()

	mu       sync.Mutex
	detail   *products.DetailController
	detailID int64
	create   *productform.Controller
	edit     *productform.Controller
	editID   int64
}

func (w *Workspace) Scope() session.Scope {
	return w.deps.Scope
}

// Detail returns the detail controller for id, keeping the current one when
// the same product is still open.
func (w *Workspace) Detail(id int64) *products.DetailController {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.detail == nil || w.detailID != id {
		w.detail = products.NewDetailController(w.deps)
		w.detailID = id
	}
	return w.detail
}

// CreateForm returns the open create form, building and loading one when
// none is open. fresh discards any previous draft.
func (w *Workspace) CreateForm(ctx context.Context, fresh bool) (*productform.Controller, error) {
	w.mu.Lock()
	current := w.create
	w.mu.Unlock()
	if current != nil && !fresh {
		return current, nil
	}

	form, err := productform.NewCreate(ctx, w.catalog, w.logg)
	w.mu.Lock()
	w.create = form
	w.mu.Unlock()
	return form, err
}

// EditForm returns the edit form for id, loading it when a different product
// is requested or fresh is set.
func (w *Workspace) EditForm(ctx context.Context, id int64, fresh bool) (*productform.Controller, error) {
	w.mu.Lock()
	current, currentID := w.edit, w.editID
	w.mu.Unlock()
	if current != nil && currentID == id && !fresh {
		return current, nil
	}

	form, err := productform.NewEdit(ctx, w.catalog, w.logg, id)
	w.mu.Lock()
	w.edit = form
	w.editID = id
	w.mu.Unlock()
	return form, err
}

// CloseForms drops the open forms after a submit or cancel.
func (w *Workspace) CloseForms() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.create = nil
	w.edit = nil
	w.editID = 0
}

func (w *Workspace) close() {
	w.Notifier.Close()
	for _, fn := range w.unsub {
		fn()
	}
}
