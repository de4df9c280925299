package controllers

import (
	"context"
	"net/http"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
	"github.com/campusbites/campusbites-client/web/views"
)

type authenticator interface {
	Login(ctx context.Context, role accounts.Role, email, password string) (*accounts.User, error)
}

type loginPage struct {
	Page
	Error string
}

// LoginPage renders the sign-in form.
func LoginPage(renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(r.Context(), w, "login", loginPage{
			Page: newPage("Sign in", cartStore, sessions),
		})
	}
}

// Login authenticates against the account service for the submitted role and
// stores the returned user in the session. Pickers land on their dashboard.
func Login(svc authenticator, sessions *accounts.Session, renderer *views.Renderer, cartStore *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		role := accounts.Role(r.PostFormValue("role"))
		if role != accounts.RoleCustomer && role != accounts.RolePicker {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "role must be customer or picker"))
			return
		}

		user, err := svc.Login(r.Context(), role, r.PostFormValue("email"), r.PostFormValue("password"))
		if err != nil {
			logg.Warn(r.Context(), "login failed: "+err.Error())
			renderer.Render(r.Context(), w, "login", loginPage{
				Page:  newPage("Sign in", cartStore, sessions),
				Error: "Sign in failed, check your email and password.",
			})
			return
		}

		sessions.SignIn(r.Context(), *user)
		if role == accounts.RolePicker {
			http.Redirect(w, r, "/picker", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout clears the stored session.
func Logout(sessions *accounts.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.SignOut(r.Context())
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
