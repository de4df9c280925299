package controllers

import (
	"context"
	"net/http"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/checkout"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
)

type checkoutService interface {
	Checkout(ctx context.Context, input checkout.Input) (*checkout.Result, error)
}

// Checkout places the order for the signed-in customer and redirects to its
// tracking page.
func Checkout(svc checkoutService, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		result, err := svc.Checkout(r.Context(), checkout.Input{
			CustomerID:      user.ID,
			DeliveryAddress: r.PostFormValue("delivery_address"),
			PayFromCredit:   r.PostFormValue("pay_from_credit") == "true",
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/orders/"+result.OrderID, http.StatusSeeOther)
	}
}
