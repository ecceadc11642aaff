package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront/pkg/types"
)

const cartsPath = "/api/carts/"

func cartPath(id types.CartID, action string) string {
	if action == "" {
		return fmt.Sprintf("%s%d/", cartsPath, id)
	}
	return fmt.Sprintf("%s%d/%s/", cartsPath, id, action)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

type updateItemRequest struct {
	ItemID   int64 `json:"item_id" validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"min=1"`
}

type removeItemRequest struct {
	ItemID int64 `json:"item_id" validate:"gt=0"`
}

// CreateCart mints a new empty cart.
func (c *Client) CreateCart(ctx context.Context) (*types.Cart, error) {
	var cart types.Cart
	if err := c.do(ctx, "create_cart", http.MethodPost, cartsPath, nil, struct{}{}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) GetCart(ctx context.Context, id types.CartID) (*types.Cart, error) {
	var cart types.Cart
	if err := c.do(ctx, "get_cart", http.MethodGet, cartPath(id, ""), nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ListCarts(ctx context.Context) ([]types.Cart, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list_carts", http.MethodGet, cartsPath, nil, nil, &raw); err != nil {
		return nil, err
	}
	var list []types.Cart
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var page struct {
		Results []types.Cart `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, remoteError(http.MethodGet, cartsPath, http.StatusOK, "invalid response from catalog", err)
	}
	return page.Results, nil
}

// AddItem adds quantity units of a product. The server answers with the cart.
func (c *Client) AddItem(ctx context.Context, cartID types.CartID, productID int64, quantity int) (*types.Cart, error) {
	body := addItemRequest{ProductID: productID, Quantity: quantity}
	if err := validatePayload(body); err != nil {
		return nil, err
	}
	var cart types.Cart
	if err := c.do(ctx, "add_item", http.MethodPost, cartPath(cartID, "add_item"), nil, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItem sets the quantity of one line.
func (c *Client) UpdateItem(ctx context.Context, cartID types.CartID, itemID int64, quantity int) (*types.Cart, error) {
	body := updateItemRequest{ItemID: itemID, Quantity: quantity}
	if err := validatePayload(body); err != nil {
		return nil, err
	}
	var cart types.Cart
	if err := c.do(ctx, "update_item", http.MethodPatch, cartPath(cartID, "update_item"), nil, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes one line. The item id travels in the DELETE body.
func (c *Client) RemoveItem(ctx context.Context, cartID types.CartID, itemID int64) error {
	body := removeItemRequest{ItemID: itemID}
	if err := validatePayload(body); err != nil {
		return err
	}
	return c.do(ctx, "remove_item", http.MethodDelete, cartPath(cartID, "remove_item"), nil, body, nil)
}
