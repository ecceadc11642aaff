package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// CartView resolves the client's cart, creating it on first visit.
func CartView(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		err := ws.Cart.Mount(r.Context())
		render(w, r, logg, ws, navigation.ViewCart, ws.Cart.State(), err)
	})
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateItem changes a line quantity. Quantities below 1 leave the cart
// untouched.
func CartUpdateItem(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = ws.Cart.UpdateQuantity(r.Context(), itemID, req.Quantity)
		render(w, r, logg, ws, navigation.ViewCart, ws.Cart.State(), err)
	})
}

func CartRemoveItem(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = ws.Cart.Remove(r.Context(), itemID)
		render(w, r, logg, ws, navigation.ViewCart, ws.Cart.State(), err)
	})
}
