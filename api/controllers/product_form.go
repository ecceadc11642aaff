package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/navigation"
	"github.com/angelmondragon/storefront/internal/productform"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	formActionSubmit = "submit"
	formActionBlur   = "blur"
	formActionCancel = "cancel"
)

type formRequest struct {
	Draft  productform.Draft   `json:"draft"`
	Blur   []productform.Field `json:"blur,omitempty"`
	Action string              `json:"action,omitempty" validate:"omitempty,oneof=submit blur cancel"`
}

// ProductNewView opens an empty create form.
func ProductNewView(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		form, err := ws.CreateForm(r.Context(), true)
		render(w, r, logg, ws, navigation.ViewProductNew, form.State(), err)
	})
}

// ProductNewSubmit updates the create draft and, unless the action is blur
// or cancel, submits it.
func ProductNewSubmit(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		var req formRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		form, err := ws.CreateForm(r.Context(), false)
		if err != nil && form == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handleForm(w, r, logg, ws, navigation.ViewProductNew, form, req)
	})
}

// ProductEditView opens the edit form seeded from the stored product.
func ProductEditView(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		form, err := ws.EditForm(r.Context(), id, true)
		render(w, r, logg, ws, navigation.ViewProductEdit, form.State(), err)
	})
}

func ProductEditSubmit(reg Workspaces, logg *logger.Logger) http.HandlerFunc {
	return withWorkspace(reg, logg, func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req formRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		form, err := ws.EditForm(r.Context(), id, false)
		if err != nil {
			render(w, r, logg, ws, navigation.ViewProductEdit, form.State(), err)
			return
		}
		handleForm(w, r, logg, ws, navigation.ViewProductEdit, form, req)
	})
}

func handleForm(w http.ResponseWriter, r *http.Request, logg *logger.Logger, ws *workspace.Workspace, view string, form *productform.Controller, req formRequest) {
	if req.Action == formActionCancel {
		next := form.Cancel()
		ws.CloseForms()
		responses.Redirect(w, r, next)
		return
	}

	form.Update(req.Draft)
	for _, field := range req.Blur {
		form.Blur(field)
	}

	switch req.Action {
	case formActionBlur:
		render(w, r, logg, ws, view, form.State(), nil)
	case formActionSubmit, "":
		next, err := form.Submit(r.Context())
		if err != nil {
			render(w, r, logg, ws, view, form.State(), err)
			return
		}
		ws.CloseForms()
		responses.Redirect(w, r, next)
	}
}
