// Package navigation maps paths to views and builds the targets controllers
// navigate to after successful actions.
package navigation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Root       = "/"
	Products   = "/products"
	NewProduct = "/products/new"
	Featured   = "/featured"
	Cart       = "/cart"
)

// View names rendered by the front ends.
const (
	ViewProducts      = "products"
	ViewProductNew    = "product_new"
	ViewProductDetail = "product_detail"
	ViewProductEdit   = "product_edit"
	ViewFeatured      = "featured"
	ViewCart          = "cart"
	ViewAssignment    = "assignment"
)

func ProductDetail(id int64) string {
	return fmt.Sprintf("%s/%d", Products, id)
}

func ProductEdit(id int64) string {
	return fmt.Sprintf("%s/%d/edit", Products, id)
}

// Route is the outcome of resolving a path.
type Route struct {
	View     string
	ID       int64
	Redirect string
}

// Resolve maps a path onto a view. The root redirects to assignmentPath and
// anything unknown redirects to the product list.
func Resolve(path, assignmentPath string) Route {
	clean := "/" + strings.Trim(strings.TrimSpace(path), "/")
	switch clean {
	case Root:
		return Route{Redirect: assignmentPath}
	case Products:
		return Route{View: ViewProducts}
	case NewProduct:
		return Route{View: ViewProductNew}
	case Featured:
		return Route{View: ViewFeatured}
	case Cart:
		return Route{View: ViewCart}
	}
	if assignmentPath != "" && clean == "/"+strings.Trim(assignmentPath, "/") {
		return Route{View: ViewAssignment}
	}

	parts := strings.Split(strings.TrimPrefix(clean, Products+"/"), "/")
	if strings.HasPrefix(clean, Products+"/") && len(parts) <= 2 {
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err == nil && id > 0 {
			if len(parts) == 1 {
				return Route{View: ViewProductDetail, ID: id}
			}
			if parts[1] == "edit" {
				return Route{View: ViewProductEdit, ID: id}
			}
		}
	}
	return Route{Redirect: Products}
}
