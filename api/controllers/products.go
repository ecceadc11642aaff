package controllers

import (
	"net/http"
	"strconv"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const maxSearchLength = 200

type productListView struct {
	products.ListState
	PriorityLabels map[string]string `json:"priority_labels"`
}

func listView(ws *workspace.Workspace) productListView {
	labels := make(map[string]string, 4)
	for _, p := range enums.Priorities() {
		labels[strconv.Itoa(int(p))] = products.PriorityLabel(p)
	}
	return productListView{ListState: ws.Products.State(), PriorityLabels: labels}
}

func renderList(w http.ResponseWriter, r *http.Request, logg *logger.Logger, ws *workspace.Workspace, err error) {
	render(w, r, logg, ws, navigation.ViewProducts, listView(ws), err)
}

// ProductsView mounts the product list: categories and the current page.
func ProductsView(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		renderList(w, r, logg, ws, ws.Products.Mount(r.Context()))
	})
}

type filtersRequest struct {
	Category      *int64  `json:"category,omitempty" validate:"omitempty,gt=0"`
	ClearCategory bool    `json:"clear_category"`
	Search        *string `json:"search,omitempty"`
	PageSize      *int    `json:"page_size,omitempty" validate:"omitempty,gt=0,lte=100"`
	Clear         bool    `json:"clear"`
}

func (req filtersRequest) toUpdate() products.FilterUpdate {
	update := products.FilterUpdate{
		Category:      req.Category,
		ClearCategory: req.ClearCategory,
		PageSize:      req.PageSize,
		Clear:         req.Clear,
	}
	if req.Search != nil {
		search := validators.SanitizeString(*req.Search, maxSearchLength)
		update.Search = &search
	}
	return update
}

// ProductsFilters applies a filter change; the list returns to page 1.
func ProductsFilters(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		var req filtersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		renderList(w, r, logg, ws, ws.Products.ApplyFilters(r.Context(), req.toUpdate()))
	})
}

func ProductsNextPage(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		renderList(w, r, logg, ws, ws.Products.NextPage(r.Context()))
	})
}

func ProductsPrevPage(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		renderList(w, r, logg, ws, ws.Products.PrevPage(r.Context()))
	})
}

// ProductToggleFeatured flips the featured flag of a listed product.
func ProductToggleFeatured(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		renderList(w, r, logg, ws, ws.Products.ToggleFeatured(r.Context(), id))
	})
}

// ProductRequestDelete opens the delete confirmation for a product.
func ProductRequestDelete(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Products.RequestDelete(id)
		renderList(w, r, logg, ws, nil)
	})
}

func ProductConfirmDelete(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		renderList(w, r, logg, ws, ws.Products.ConfirmDelete(r.Context()))
	})
}

func ProductCancelDelete(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		ws.Products.CancelDelete()
		renderList(w, r, logg, ws, nil)
	})
}

// ProductAddToCart adds one unit from the list and redirects to the cart.
func ProductAddToCart(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := ws.Products.AddToCart(r.Context(), id)
		if err != nil {
			renderList(w, r, logg, ws, err)
			return
		}
		responses.Redirect(w, r, next)
	})
}
