package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/pkg/types"
)

const productsPath = "/api/products/"

func productPath(id int64) string {
	return fmt.Sprintf("%s%d/", productsPath, id)
}

func filterQuery(filters types.ProductFilters) url.Values {
	query := url.Values{}
	if filters.Category != nil {
		query.Set("category", strconv.FormatInt(*filters.Category, 10))
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(filters.PageSize))
	}
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		query.Set("search", *filters.Search)
	}
	return query
}

// ListProducts fetches one page of products. Count falls back to the number
// of results when the server omits it.
func (c *Client) ListProducts(ctx context.Context, filters types.ProductFilters) (types.Page[types.Product], error) {
	var raw struct {
		Results []types.Product `json:"results"`
		Count   *int            `json:"count"`
	}
	if err := c.do(ctx, "list_products", http.MethodGet, productsPath, filterQuery(filters), nil, &raw); err != nil {
		return types.Page[types.Product]{}, err
	}
	page := types.Page[types.Product]{Results: raw.Results, Count: len(raw.Results)}
	if page.Results == nil {
		page.Results = []types.Product{}
	}
	if raw.Count != nil {
		page.Count = *raw.Count
	}
	return page, nil
}

// ListFeatured returns the featured products. The endpoint may answer with a
// bare array or a paginated object.
func (c *Client) ListFeatured(ctx context.Context) ([]types.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list_featured", http.MethodGet, productsPath+"featured/", nil, nil, &raw); err != nil {
		return nil, err
	}
	var list []types.Product
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var page struct {
		Results []types.Product `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, remoteError(http.MethodGet, productsPath+"featured/", http.StatusOK, "invalid response from catalog", err)
	}
	return page.Results, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, "get_product", http.MethodGet, productPath(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, payload types.ProductPayload) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, "create_product", http.MethodPost, productsPath, nil, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product (PUT).
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload types.ProductPayload) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, "update_product", http.MethodPut, productPath(id), nil, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PatchProduct sends a partial update.
func (c *Client) PatchProduct(ctx context.Context, id int64, fields map[string]any) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, "patch_product", http.MethodPatch, productPath(id), nil, fields, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SetFeatured flips the featured flag and returns the server's copy.
func (c *Client) SetFeatured(ctx context.Context, id int64, featured bool) (*types.Product, error) {
	var product types.Product
	body := map[string]bool{"is_featured": featured}
	if err := c.do(ctx, "set_featured", http.MethodPatch, productPath(id), nil, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_product", http.MethodDelete, productPath(id), nil, nil, nil)
}
