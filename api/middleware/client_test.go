package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

func newClientHandler(t *testing.T, store session.Store, seen *[]string) http.Handler {
	t.Helper()
	cookies := NewCookieStore(config.SessionConfig{Secret: "test-secret-test-secret", MaxAge: time.Hour})
	return ClientSession(cookies, "storefront", store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = append(*seen, ClientIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestClientSessionIssuesAndReusesClientID(t *testing.T) {
	var seen []string
	h := newClientHandler(t, session.NewMemoryStore(), &seen)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/products", nil))
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "storefront", cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(cookies[0])
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	require.Len(t, seen, 2)
	require.NotEmpty(t, seen[0])
	require.Equal(t, seen[0], seen[1])
	require.Empty(t, second.Result().Cookies())
}

func TestClientSessionRemembersBearerToken(t *testing.T) {
	var seen []string
	store := session.NewMemoryStore()
	h := newClientHandler(t, store, &seen)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	token, ok, err := store.Get(context.Background(), seen[0], session.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", token)
}
