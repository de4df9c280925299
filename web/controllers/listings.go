package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/internal/listings"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
	"github.com/campusbites/campusbites-client/web/views"
)

type listingSource interface {
	List(ctx context.Context) ([]listings.Listing, error)
}

type listingView struct {
	listings.Listing
	Expiry string
}

type listingsPage struct {
	Page
	Listings  []listingView
	FoodTypes []string
	Search    string
	FoodType  string
}

// SpecialListings renders the surplus-food page: discounted items stalls put
// up for self-collection, filterable by search term and food type.
func SpecialListings(src listingSource, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := src.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		search := r.URL.Query().Get("q")
		foodType := r.URL.Query().Get("food_type")

		now := time.Now()
		filtered := listings.Filter(all, search, foodType)
		items := make([]listingView, 0, len(filtered))
		for _, l := range filtered {
			items = append(items, listingView{Listing: l, Expiry: l.ExpiryLabel(now)})
		}

		renderer.Render(r.Context(), w, "listings", listingsPage{
			Page:      newPage("Special Listings", cartStore, sessions),
			Listings:  items,
			FoodTypes: listings.FoodTypes(all),
			Search:    search,
			FoodType:  foodType,
		})
	}
}
