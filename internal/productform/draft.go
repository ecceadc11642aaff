package productform

import (
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Field names a validated form input.
type Field string

const (
	FieldTitle    Field = "title"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
	FieldQuantity Field = "quantity"
	FieldPriority Field = "priority"
)

// ValidatedFields are touched together on submit.
var ValidatedFields = []Field{FieldTitle, FieldCategory, FieldPrice, FieldQuantity, FieldPriority}

const (
	msgTitleRequired    = "Title is required."
	msgCategoryRequired = "Category is required."
	msgPriceNaN         = "Price must be a number."
	msgPriceNegative    = "Price must be >= 0."
	msgQuantityNaN      = "Quantity must be a number."
	msgQuantityInvalid  = "Quantity must be an integer >= 0."
	msgQuantityTooLarge = "Quantity must be <= 2147483647."
	msgPriorityRequired = "Priority is required."
)

// maxQuantity is the largest stock count the catalog column stores.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// Draft holds the form inputs exactly as typed.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
	Priority    string `json:"priority"`
	IsFeatured  bool   `json:"is_featured"`
	ImageURL    string `json:"image_url"`
}

// EmptyDraft is the starting point of the create form.
func EmptyDraft() Draft {
	return Draft{Priority: strconv.Itoa(int(enums.DefaultPriority))}
}

// DraftFromProduct seeds the edit form. Priority arrives already normalized
// by the product decoder.
func DraftFromProduct(p types.Product) Draft {
	priority := p.Priority
	if !priority.IsValid() {
		priority = enums.DefaultPriority
	}
	d := Draft{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.String(),
		Quantity:    strconv.Itoa(p.Quantity),
		Priority:    strconv.Itoa(int(priority)),
		IsFeatured:  p.IsFeatured,
		ImageURL:    p.ImageURL,
	}
	if p.Category > 0 {
		d.Category = strconv.FormatInt(p.Category, 10)
	}
	return d
}

// Errors recomputes the validation messages for every field.
func (d Draft) Errors() map[Field]string {
	errs := map[Field]string{}
	if strings.TrimSpace(d.Title) == "" {
		errs[FieldTitle] = msgTitleRequired
	}
	if _, ok := parseCategory(d.Category); !ok {
		errs[FieldCategory] = msgCategoryRequired
	}
	if price, err := decimal.NewFromString(strings.TrimSpace(d.Price)); err != nil {
		errs[FieldPrice] = msgPriceNaN
	} else if price.IsNegative() {
		errs[FieldPrice] = msgPriceNegative
	}
	if qty, err := decimal.NewFromString(strings.TrimSpace(d.Quantity)); err != nil {
		errs[FieldQuantity] = msgQuantityNaN
	} else if !qty.IsInteger() || qty.IsNegative() {
		errs[FieldQuantity] = msgQuantityInvalid
	} else if qty.GreaterThan(maxQuantity) {
		errs[FieldQuantity] = msgQuantityTooLarge
	}
	if _, ok := parsePriority(d.Priority); !ok {
		errs[FieldPriority] = msgPriorityRequired
	}
	return errs
}

// Payload converts a valid draft into the request body. It reports false
// when the draft has validation errors.
func (d Draft) Payload() (types.ProductPayload, bool) {
	if len(d.Errors()) > 0 {
		return types.ProductPayload{}, false
	}
	category, _ := parseCategory(d.Category)
	priority, _ := parsePriority(d.Priority)
	price := decimal.RequireFromString(strings.TrimSpace(d.Price))
	qty := decimal.RequireFromString(strings.TrimSpace(d.Quantity))
	return types.ProductPayload{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Category:    category,
		Price:       price,
		Quantity:    int(qty.IntPart()),
		Priority:    priority,
		IsFeatured:  d.IsFeatured,
		ImageURL:    d.ImageURL,
	}, true
}

func parseCategory(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func parsePriority(raw string) (enums.Priority, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	p := enums.Priority(n)
	return p, p.IsValid()
}
