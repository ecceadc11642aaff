package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/navigation"
)

// Navigate sends paths that are not views to their target: the root goes to
// the assignment page and anything unknown to the product list.
func Navigate(assignmentPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route := navigation.Resolve(r.URL.Path, assignmentPath)
		if route.Redirect != "" {
			http.Redirect(w, r, route.Redirect, http.StatusFound)
			return
		}
		if route.View == navigation.ViewAssignment {
			responses.WriteView(w, route.View, map[string]string{}, nil)
			return
		}
		http.Redirect(w, r, navigation.Products, http.StatusFound)
	}
}
