package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteView renders a view state with the client's active notifications.
func WriteView(w http.ResponseWriter, view string, data, notifications any) {
	writeJSON(w, http.StatusOK, types.ViewEnvelope{View: view, Data: data, Notifications: notifications})
}

// WriteViewError renders the current view state of a failed action. The
// status follows the error code; the body still carries the view so the
// front end can show the inline message the controller recorded.
func WriteViewError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, view string, data, notifications any, err error) {
	typed, meta := classify(err)
	apiErr := publicError(typed, meta)
	if logg != nil {
		ctx = logg.WithView(ctx, view)
	}
	logError(ctx, logg, err, "view.action_failed")
	writeJSON(w, meta.HTTPStatus, types.ViewEnvelope{
		View:          view,
		Data:          data,
		Notifications: notifications,
		Error:         &apiErr,
	})
}

// Redirect answers a successful navigation with 303 See Other.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed, meta := classify(err)
	logError(ctx, logg, err, "request.error")
	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Error: publicError(typed, meta)})
}

func classify(err error) (*pkgerrors.Error, pkgerrors.Metadata) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	return typed, pkgerrors.MetadataFor(typed.Code())
}

func publicError(typed *pkgerrors.Error, meta pkgerrors.Metadata) types.APIError {
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeRemote,
		pkgerrors.CodeStateInconsistency,
		pkgerrors.CodeNotFound:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	out := types.APIError{
		Code:    string(typed.Code()),
		Message: msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			out.Details = details
		}
	}
	return out
}

func logError(ctx context.Context, logg *logger.Logger, err error, msg string) {
	if logg == nil || err == nil {
		return
	}
	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	switch {
	case pkgerrors.Is(err, pkgerrors.CodeInternal) || pkgerrors.As(err) == nil:
		logg.Error(ctx, msg, err)
	case pkgerrors.IsClientSide(err):
		logg.Debug(ctx, msg)
	default:
		logg.Warn(ctx, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
