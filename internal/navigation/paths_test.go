package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{path: "/", want: Route{Redirect: "/assignment"}},
		{path: "", want: Route{Redirect: "/assignment"}},
		{path: "/products", want: Route{View: ViewProducts}},
		{path: "/products/", want: Route{View: ViewProducts}},
		{path: "/products/new", want: Route{View: ViewProductNew}},
		{path: "/products/12", want: Route{View: ViewProductDetail, ID: 12}},
		{path: "/products/12/edit", want: Route{View: ViewProductEdit, ID: 12}},
		{path: "/products/12/other", want: Route{Redirect: Products}},
		{path: "/products/abc", want: Route{Redirect: Products}},
		{path: "/featured", want: Route{View: ViewFeatured}},
		{path: "/cart", want: Route{View: ViewCart}},
		{path: "/nowhere", want: Route{Redirect: Products}},
		{path: "/assignment", want: Route{View: ViewAssignment}},
	}
	for _, tt := range tests {
		got := Resolve(tt.path, "/assignment")
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

func TestPathBuilders(t *testing.T) {
	if ProductDetail(3) != "/products/3" || ProductEdit(3) != "/products/3/edit" {
		t.Fatalf("unexpected paths %s %s", ProductDetail(3), ProductEdit(3))
	}
}
