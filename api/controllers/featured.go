package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func FeaturedView(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		err := ws.Featured.Load(r.Context())
		render(w, r, logg, ws, navigation.ViewFeatured, ws.Featured.State(), err)
	})
}

// FeaturedUnfeature clears the featured flag and drops the product from the
// featured list.
func FeaturedUnfeature(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = ws.Featured.Unfeature(r.Context(), id)
		render(w, r, logg, ws, navigation.ViewFeatured, ws.Featured.State(), err)
	})
}
