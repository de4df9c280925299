package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
)

func newSession(t *testing.T) *accounts.Session {
	t.Helper()
	store, err := localstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	sessions, err := accounts.NewSession(context.Background(), store, logg)
	require.NoError(t, err)
	return sessions
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestIDEchoesClientUUID(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	inbound := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", inbound)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, inbound, w.Header().Get("X-Request-Id"))
}

func TestRequestIDReplacesNonUUIDValue(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", `injected="yes"`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	got := w.Header().Get("X-Request-Id")
	assert.NotEqual(t, `injected="yes"`, got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRecovererConvertsPanicTo500(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := Recoverer(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRecovererServesHTMLForBrowsers(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := Recoverer(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.NotContains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRequireUserRedirectsSignedOut(t *testing.T) {
	sessions := newSession(t)
	handler := RequireUser(sessions, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireUserPassesSignedIn(t *testing.T) {
	sessions := newSession(t)
	sessions.SignIn(context.Background(), accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	handler := RequireUser(sessions, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	sessions := newSession(t)
	sessions.SignIn(context.Background(), accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	handler := RequireRole(sessions, accounts.RolePicker, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/picker", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
