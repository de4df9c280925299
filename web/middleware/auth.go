package middleware

import (
	"net/http"
	"time"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/pkg/logger"
)

// SessionReader is the slice of the account session the middleware needs.
type SessionReader interface {
	Current() *accounts.User
	TokenExpired(now time.Time) bool
}

// RequireUser redirects to the sign-in page when no account is loaded or the
// stored token has expired.
func RequireUser(sessions SessionReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := sessions.Current()
			if user == nil || sessions.TokenExpired(time.Now()) {
				if logg != nil {
					logg.Debug(r.Context(), "unauthenticated request, redirecting to login")
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route subtree on the signed-in account's role.
func RequireRole(sessions SessionReader, role accounts.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := sessions.Current()
			if user == nil || user.Role != role {
				if logg != nil {
					logg.Debug(r.Context(), "role mismatch, redirecting to login")
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
