package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/workspace"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Workspaces hands out the per-client view controllers.
type Workspaces interface {
	Get(ctx context.Context, clientID string) (*workspace.Workspace, error)
}

type workspaceHandler func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace)

// withWorkspace resolves the caller's workspace before running fn.
func withWorkspace(reg Workspaces, logg *logger.Logger, fn workspaceHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workspaces unavailable"))
			return
		}
		clientID := middleware.ClientIDFromContext(r.Context())
		if clientID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "client session missing"))
			return
		}
		ws, err := reg.Get(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fn(w, r, ws)
	}
}

// render writes the view, or the view with the action's error when err is
// not nil.
func render(w http.ResponseWriter, r *http.Request, logg *logger.Logger, ws *workspace.Workspace, view string, data any, err error) {
	if err != nil {
		responses.WriteViewError(r.Context(), logg, w, view, data, ws.Notifier.Active(), err)
		return
	}
	responses.WriteView(w, view, data, ws.Notifier.Active())
}
