package controllers

import (
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

type cartPage struct {
	Page
	Lines    []cart.Line
	Total    decimal.Decimal
	Conflict *cart.PendingConflict
}

// CartPage renders the cart, including the conflict prompt when an add is
// waiting on a decision.
func CartPage(cartStore *cart.Store, renderer *views.Renderer, sessions *accounts.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(r.Context(), w, "cart", cartPage{
			Page:     newPage("Cart", cartStore, sessions),
			Lines:    cartStore.Lines(),
			Total:    cartStore.Total(),
			Conflict: cartStore.PendingConflict(),
		})
	}
}

// CartAdd looks the submitted item up in the restaurant's menu and adds it.
// A single-restaurant conflict is not an error; the cart page shows the
// prompt.
func CartAdd(cartStore *cart.Store, svc restaurantCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		itemID := r.PostFormValue("item_id")
		restaurantID := r.PostFormValue("restaurant_id")
		if itemID == "" || restaurantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item_id and restaurant_id are required"))
			return
		}

		menu, err := svc.GetMenu(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var item *cart.MenuItem
		for _, entry := range menu {
			if entry.ID == itemID {
				item = &cart.MenuItem{ID: entry.ID, Name: entry.Name, Price: entry.Price}
				break
			}
		}
		if item == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found"))
			return
		}

		cartStore.AddItem(r.Context(), *item, restaurantID)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// CartResolveConflict completes a pending add. discard=true starts a new
// cart; anything else keeps the current one.
func CartResolveConflict(cartStore *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		discard := r.PostFormValue("discard") == "true"
		cartStore.ResolveConflict(r.Context(), discard)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// CartUpdate sets a line's quantity. Zero or negative removes the line.
func CartUpdate(cartStore *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		qty, err := validators.ParseQuantity("quantity", r.PostFormValue("quantity"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartStore.UpdateQuantity(r.Context(), chi.URLParam(r, "itemId"), qty)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// CartRemove drops a line. Removing an absent item is a no-op.
func CartRemove(cartStore *cart.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartStore.RemoveItem(r.Context(), chi.URLParam(r, "itemId"))
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// CartClear empties the cart and releases the restaurant binding.
func CartClear(cartStore *cart.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartStore.Clear(r.Context())
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}
