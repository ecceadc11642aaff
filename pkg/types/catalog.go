package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Category is read-only reference data used for filtering and form selection.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Product mirrors the catalog product resource.
type Product struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     int64           `json:"category"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Priority     enums.Priority  `json:"priority"`
	IsFeatured   bool            `json:"is_featured"`
	ImageURL     string          `json:"image_url"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// ProductPayload is the body sent on create and full update.
type ProductPayload struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Category    int64           `json:"category" validate:"required,gt=0"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Priority    enums.Priority  `json:"priority" validate:"min=1,max=4"`
	IsFeatured  bool            `json:"is_featured"`
	ImageURL    string          `json:"image_url"`
}

// CartID identifies a cart on the catalog server. It is persisted as a
// string in the client session store.
type CartID int64

func (id CartID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseCartID reads a persisted cart id.
func ParseCartID(raw string) (CartID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return CartID(n), nil
}

// Cart is the server-side cart with its authoritative total.
type Cart struct {
	ID        CartID          `json:"id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// CartItem is one cart line with a snapshot of the product.
type CartItem struct {
	ID        int64      `json:"id"`
	Product   Product    `json:"product"`
	Quantity  int        `json:"quantity"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Subtotal is price × quantity rounded to cents, for display only.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// ProductFilters are the query parameters of the product list endpoint.
// Nil pointers are omitted from the request.
type ProductFilters struct {
	Category *int64  `json:"category,omitempty"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Search   *string `json:"search,omitempty"`
}
