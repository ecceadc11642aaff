package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// ProductDetail loads one product for the detail view.
func ProductDetail(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail := ws.Detail(id)
		err = detail.Load(r.Context(), id)
		render(w, r, logg, ws, navigation.ViewProductDetail, detail.State(), err)
	})
}

type addQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ProductDetailAdd adds the requested quantity and redirects to the cart.
// The product is loaded first when the detail view was not opened before.
func ProductDetailAdd(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req addQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail := ws.Detail(id)
		if detail.State().Product == nil {
			if err := detail.Load(r.Context(), id); err != nil {
				render(w, r, logg, ws, navigation.ViewProductDetail, detail.State(), err)
				return
			}
		}
		detail.SetQuantity(req.Quantity)
		next, err := detail.AddToCart(r.Context())
		if err != nil {
			render(w, r, logg, ws, navigation.ViewProductDetail, detail.State(), err)
			return
		}
		responses.Redirect(w, r, next)
	})
}
