package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/internal/catalog"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
	"github.com/campusbites/campusbites-client/web/views"
)

type restaurantCatalog interface {
	ListRestaurants(ctx context.Context) ([]catalog.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*catalog.Restaurant, error)
	GetMenu(ctx context.Context, id string) ([]catalog.MenuItem, error)
}

type restaurantListPage struct {
	Page
	Restaurants []catalog.Restaurant
}

// RestaurantList renders the landing page of all open stalls.
func RestaurantList(svc restaurantCatalog, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := svc.ListRestaurants(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		renderer.Render(r.Context(), w, "restaurants", restaurantListPage{
			Page:        newPage("Restaurants", cartStore, sessions),
			Restaurants: restaurants,
		})
	}
}

type restaurantDetailPage struct {
	Page
	Restaurant *catalog.Restaurant
	Menu       []catalog.MenuItem
}

// RestaurantDetail renders one restaurant with its menu.
func RestaurantDetail(svc restaurantCatalog, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "restaurantId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required"))
			return
		}

		restaurant, err := svc.GetRestaurant(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu := restaurant.Menu
		if len(menu) == 0 {
			menu, err = svc.GetMenu(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		renderer.Render(r.Context(), w, "restaurant", restaurantDetailPage{
			Page:       newPage(restaurant.Name, cartStore, sessions),
			Restaurant: restaurant,
			Menu:       menu,
		})
	}
}
