package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront/pkg/types"
)

const categoriesPath = "/api/categories/"

func categoryPath(id int64) string {
	return fmt.Sprintf("%s%d/", categoriesPath, id)
}

// CategoryPayload is the body for create and update.
type CategoryPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListCategories returns every category. Paginated and bare-array bodies are
// both accepted.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list_categories", http.MethodGet, categoriesPath, nil, nil, &raw); err != nil {
		return nil, err
	}
	var page struct {
		Results []types.Category `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err == nil {
		if page.Results == nil {
			return []types.Category{}, nil
		}
		return page.Results, nil
	}
	var list []types.Category
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, remoteError(http.MethodGet, categoriesPath, http.StatusOK, "invalid response from catalog", err)
	}
	return list, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*types.Category, error) {
	var category types.Category
	if err := c.do(ctx, "get_category", http.MethodGet, categoryPath(id), nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, payload CategoryPayload) (*types.Category, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	var category types.Category
	if err := c.do(ctx, "create_category", http.MethodPost, categoriesPath, nil, payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, payload CategoryPayload) (*types.Category, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	var category types.Category
	if err := c.do(ctx, "update_category", http.MethodPut, categoryPath(id), nil, payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_category", http.MethodDelete, categoryPath(id), nil, nil, nil)
}
