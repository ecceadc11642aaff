package products

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/google/go-cmp/cmp"
)

func featuredCatalog() *stubCatalog {
	return &stubCatalog{
		listFeatured: func(context.Context) ([]types.Product, error) {
			products := sampleProducts(3)
			products[0].IsFeatured = true
			products[2].IsFeatured = true
			return products, nil
		},
	}
}

func featuredIDs(products []types.Product) []int64 {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFeaturedLoadKeepsOnlyFeatured(t *testing.T) {
	c := NewFeaturedController(newDeps(featuredCatalog(), &stubResolver{}, &recordingNotifier{}))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 3}, featuredIDs(c.State().Products)); diff != "" {
		t.Fatalf("featured mismatch (-want +got):\n%s", diff)
	}
}

func TestFeaturedLoadFailureIsInlineOnly(t *testing.T) {
	catalog := &stubCatalog{
		listFeatured: func(context.Context) ([]types.Product, error) {
			return nil, pkgerrors.New(pkgerrors.CodeRemote, "")
		},
	}
	notifier := &recordingNotifier{}
	c := NewFeaturedController(newDeps(catalog, &stubResolver{}, notifier))

	if err := c.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if got := c.State().Error; got != msgLoadFeatured {
		t.Fatalf("unexpected inline error %q", got)
	}
	if notifier.errorCount() != 0 {
		t.Fatalf("expected no toast, got %v", notifier.errors)
	}
}

func TestUnfeatureRemovesOnSuccess(t *testing.T) {
	catalog := featuredCatalog()
	catalog.setFeatured = func(_ context.Context, id int64, featured bool) (*types.Product, error) {
		if featured {
			t.Fatalf("expected featured=false")
		}
		return &types.Product{ID: id}, nil
	}
	c := NewFeaturedController(newDeps(catalog, &stubResolver{}, &recordingNotifier{}))
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.Unfeature(ctx, 3); err != nil {
		t.Fatalf("unfeature: %v", err)
	}
	if diff := cmp.Diff([]int64{1}, featuredIDs(c.State().Products)); diff != "" {
		t.Fatalf("featured mismatch (-want +got):\n%s", diff)
	}
}

func TestUnfeatureFailureKeepsProduct(t *testing.T) {
	catalog := featuredCatalog()
	catalog.setFeatured = func(context.Context, int64, bool) (*types.Product, error) {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, "")
	}
	c := NewFeaturedController(newDeps(catalog, &stubResolver{}, &recordingNotifier{}))
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.Unfeature(ctx, 1); err == nil {
		t.Fatalf("expected error")
	}
	state := c.State()
	if diff := cmp.Diff([]int64{1, 3}, featuredIDs(state.Products)); diff != "" {
		t.Fatalf("featured mismatch (-want +got):\n%s", diff)
	}
	if state.Error != msgUnfeatureFailed {
		t.Fatalf("unexpected inline error %q", state.Error)
	}
}

func TestUnfeatureUnknownProductMakesNoRequest(t *testing.T) {
	catalog := featuredCatalog()
	c := NewFeaturedController(newDeps(catalog, &stubResolver{}, &recordingNotifier{}))
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.Unfeature(ctx, 2); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if catalog.count("SetFeatured") != 0 {
		t.Fatalf("expected no request")
	}
}
