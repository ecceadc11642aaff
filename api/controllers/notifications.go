package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/workspace"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// NotificationsList returns the client's active notifications.
func NotificationsList(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		responses.WriteSuccess(w, ws.Notifier.Active())
	})
}

// NotificationsDismiss removes a notification before it expires.
func NotificationsDismiss(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if !ws.Notifier.Remove(id) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found"))
			return
		}
		responses.WriteSuccess(w, ws.Notifier.Active())
	})
}
