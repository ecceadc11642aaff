package productform

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront/internal/navigation"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type stubCatalog struct {
	mu sync.Mutex

	categoriesErr error
	product       *types.Product
	productErr    error
	submitErr     error

	created []types.ProductPayload
	updated map[int64]types.ProductPayload
}

func (s *stubCatalog) ListCategories(context.Context) ([]types.Category, error) {
	if s.categoriesErr != nil {
		return nil, s.categoriesErr
	}
	return []types.Category{{ID: 1, Name: "Tools"}, {ID: 3, Name: "Lighting"}}, nil
}

func (s *stubCatalog) GetProduct(context.Context, int64) (*types.Product, error) {
	return s.product, s.productErr
}

func (s *stubCatalog) CreateProduct(_ context.Context, payload types.ProductPayload) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, payload)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &types.Product{ID: 1, Title: payload.Title}, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id int64, payload types.ProductPayload) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = map[int64]types.ProductPayload{}
	}
	s.updated[id] = payload
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &types.Product{ID: id, Title: payload.Title}, nil
}

func TestSubmitEmptyTitleAndCategory(t *testing.T) {
	catalog := &stubCatalog{}
	c, err := NewCreate(context.Background(), catalog, nil)
	if err != nil {
		t.Fatalf("new create: %v", err)
	}
	c.Update(Draft{Price: "1", Quantity: "1", Priority: "2"})

	path, err := c.Submit(context.Background())
	if path != "" || !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got path=%q err=%v", path, err)
	}
	want := map[Field]string{
		FieldTitle:    msgTitleRequired,
		FieldCategory: msgCategoryRequired,
	}
	if diff := cmp.Diff(want, c.State().FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(catalog.created) != 0 || len(catalog.updated) != 0 {
		t.Fatalf("expected no create or update call")
	}
}

func TestMessagesVisibleOnlyWhenTouched(t *testing.T) {
	c, _ := NewCreate(context.Background(), &stubCatalog{}, nil)
	c.Update(Draft{Price: "x", Quantity: "1", Priority: "2"})

	if got := c.State().FieldErrors; len(got) != 0 {
		t.Fatalf("expected no visible errors before blur, got %v", got)
	}
	if c.CanSubmit() {
		t.Fatalf("expected submit disabled for invalid draft")
	}

	c.Blur(FieldPrice)
	if diff := cmp.Diff(map[Field]string{FieldPrice: msgPriceNaN}, c.State().FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateSuccessNavigatesToProducts(t *testing.T) {
	catalog := &stubCatalog{}
	c, _ := NewCreate(context.Background(), catalog, nil)
	if got := len(c.State().Categories); got != 2 {
		t.Fatalf("expected categories loaded, got %d", got)
	}
	c.Update(validDraft())

	path, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if path != navigation.Products {
		t.Fatalf("expected %s, got %q", navigation.Products, path)
	}
	if len(catalog.created) != 1 || catalog.created[0].Title != "Desk lamp" {
		t.Fatalf("unexpected create calls %+v", catalog.created)
	}
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	catalog := &stubCatalog{submitErr: pkgerrors.New(pkgerrors.CodeRemote, "")}
	c, _ := NewCreate(context.Background(), catalog, nil)
	c.Update(validDraft())

	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	state := c.State()
	if state.Error != msgCreateFailed {
		t.Fatalf("unexpected inline error %q", state.Error)
	}
	if diff := cmp.Diff(validDraft(), state.Draft); diff != "" {
		t.Fatalf("draft changed (-want +got):\n%s", diff)
	}
	if state.Submitting || !state.CanSubmit {
		t.Fatalf("expected form ready for another attempt: %+v", state)
	}
}

func TestCreateReportsServerMessage(t *testing.T) {
	catalog := &stubCatalog{submitErr: pkgerrors.New(pkgerrors.CodeRemote, "title: This field may not be blank.")}
	c, _ := NewCreate(context.Background(), catalog, nil)
	c.Update(validDraft())
	_, _ = c.Submit(context.Background())
	if got := c.State().Error; got != "title: This field may not be blank." {
		t.Fatalf("unexpected inline error %q", got)
	}
}

func TestEditLoadsProductAndUpdates(t *testing.T) {
	catalog := &stubCatalog{product: &types.Product{
		ID:       9,
		Title:    "Chair",
		Category: 1,
		Price:    decimal.RequireFromString("30"),
		Quantity: 2,
		Priority: 3,
	}}
	c, err := NewEdit(context.Background(), catalog, nil, 9)
	if err != nil {
		t.Fatalf("new edit: %v", err)
	}
	state := c.State()
	if state.Draft.Title != "Chair" || state.Draft.Priority != "3" || !state.Ready {
		t.Fatalf("unexpected state %+v", state)
	}

	draft := state.Draft
	draft.Title = "Office chair"
	c.Update(draft)
	path, err := c.Submit(context.Background())
	if err != nil || path != navigation.Products {
		t.Fatalf("submit: path=%q err=%v", path, err)
	}
	if got := catalog.updated[9].Title; got != "Office chair" {
		t.Fatalf("unexpected update payload title %q", got)
	}
}

func TestEditProductLoadFailure(t *testing.T) {
	catalog := &stubCatalog{productErr: pkgerrors.New(pkgerrors.CodeRemote, "")}
	c, err := NewEdit(context.Background(), catalog, nil, 9)
	if err == nil {
		t.Fatalf("expected error")
	}
	state := c.State()
	if state.Error != msgLoadProduct || state.Ready {
		t.Fatalf("unexpected state %+v", state)
	}
	if _, err := c.Submit(context.Background()); !pkgerrors.Is(err, pkgerrors.CodeStateInconsistency) {
		t.Fatalf("expected submit refused, got %v", err)
	}
	if len(catalog.updated) != 0 {
		t.Fatalf("expected no update call")
	}
}

func TestCancelNavigatesToProducts(t *testing.T) {
	c, _ := NewCreate(context.Background(), &stubCatalog{}, nil)
	if got := c.Cancel(); got != navigation.Products {
		t.Fatalf("unexpected cancel target %q", got)
	}
}
