package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
	"github.com/campusbites/campusbites-client/web/validators"
	"github.com/campusbites/campusbites-client/web/views"
)

type creditService interface {
	AddCredits(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error)
	Balance(ctx context.Context, customerID string) (decimal.Decimal, error)
	RequestRefund(ctx context.Context, customerID, orderID, reason string) error
}

type creditsPage struct {
	Page
	Balance decimal.Decimal
	Error   string
}

// CreditsPage renders the balance and top-up form.
func CreditsPage(svc creditService, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		balance, err := svc.Balance(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		renderer.Render(r.Context(), w, "credits", creditsPage{
			Page:    newPage("Credits", cartStore, sessions),
			Balance: balance,
		})
	}
}

type profilePage struct {
	Page
	Balance decimal.Decimal
}

// Profile renders the signed-in account with its live credit balance.
func Profile(svc creditService, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		balance, err := svc.Balance(r.Context(), user.ID)
		if err != nil {
			// The balance service being down should not hide the profile.
			logg.Warn(r.Context(), "balance fetch failed: "+err.Error())
			balance = user.Credit
		}

		renderer.Render(r.Context(), w, "profile", profilePage{
			Page:    newPage("Profile", cartStore, sessions),
			Balance: balance,
		})
	}
}

// CreditsAdd tops the account up by the submitted amount.
func CreditsAdd(svc creditService, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to add credits"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		amount, err := validators.ParseMoney("amount", r.PostFormValue("amount"))
		if err != nil {
			balance, balErr := svc.Balance(r.Context(), user.ID)
			if balErr != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			renderer.Render(r.Context(), w, "credits", creditsPage{
				Page:    newPage("Credits", cartStore, sessions),
				Balance: balance,
				Error:   "Enter an amount greater than zero.",
			})
			return
		}

		if _, err := svc.AddCredits(r.Context(), user.ID, amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/credits", http.StatusSeeOther)
	}
}

// RefundRequest files a refund for one of the customer's orders.
func RefundRequest(svc creditService, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to request a refund"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		orderID := chi.URLParam(r, "orderId")
		reason := r.PostFormValue("reason")
		if reason == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required"))
			return
		}

		if err := svc.RequestRefund(r.Context(), user.ID, orderID, reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/orders/"+orderID, http.StatusSeeOther)
	}
}
