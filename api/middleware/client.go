package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/pkg/catalogapi"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

const sessionClientIDKey = "client_id"

// NewCookieStore builds the signed cookie store that carries the client id.
func NewCookieStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// ClientSession identifies the browser client through a signed cookie,
// issuing a new client id on first contact. A bearer token sent by the
// client is remembered in the session store under auth_token and forwarded
// to the catalog on every later request.
func ClientSession(cookies sessions.Store, cookieName string, store session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := cookies.Get(r, cookieName)
			if err != nil && logg != nil {
				// A cookie signed with an old secret yields a fresh session.
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "client cookie rejected")
			}

			clientID, _ := sess.Values[sessionClientIDKey].(string)
			if clientID == "" {
				clientID = uuid.NewString()
				sess.Values[sessionClientIDKey] = clientID
				if err := sess.Save(r, w); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save client session"))
					return
				}
			}

			ctx = WithClientID(ctx, clientID)
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID)
			}

			scope := session.NewScope(store, clientID)
			token := validators.BearerToken(r.Header.Get("Authorization"))
			if token != "" {
				if err := scope.Set(ctx, session.KeyAuthToken, token); err != nil && logg != nil {
					logg.Error(ctx, "persist auth token", err)
				}
			} else if stored, ok, err := scope.Get(ctx, session.KeyAuthToken); err == nil && ok {
				token = stored
			}
			if token != "" {
				ctx = catalogapi.WithToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
