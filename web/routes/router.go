package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/internal/catalog"
	checkoutsvc "github.com/campusbites/campusbites-client/internal/checkout"
	"github.com/campusbites/campusbites-client/internal/credits"
	"github.com/campusbites/campusbites-client/internal/listings"
	"github.com/campusbites/campusbites-client/internal/orders"
	"github.com/campusbites/campusbites-client/internal/realtime"
	"github.com/campusbites/campusbites-client/internal/routing"
	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/controllers"
	"github.com/campusbites/campusbites-client/web/middleware"
	"github.com/campusbites/campusbites-client/web/views"
)

// Deps carries everything the page routes need. The router wires pages, the
// JSON endpoints and operational routes onto one handler.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Renderer   *views.Renderer
	Registry   *prometheus.Registry
	Sessions   *accounts.Session
	Accounts   *accounts.Client
	Cart       *cart.Store
	Catalog    *catalog.Client
	Orders     *orders.Client
	Credits    *credits.Client
	Checkout   *checkoutsvc.Service
	Realtime   *realtime.Client
	Directions *routing.Client
	Listings   *listings.Client
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
	)

	r.Get("/healthz", controllers.HealthLive(d.Config))
	r.Get("/realtime/status", controllers.RealtimeStatus(d.Realtime))
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/login", controllers.LoginPage(d.Renderer, d.Cart, d.Sessions))
	r.Post("/login", controllers.Login(d.Accounts, d.Sessions, d.Renderer, d.Cart, d.Logger))
	r.Post("/logout", controllers.Logout(d.Sessions))

	r.Get("/", controllers.RestaurantList(d.Catalog, d.Renderer, d.Cart, d.Sessions, d.Logger))
	r.Get("/restaurants/{restaurantId}", controllers.RestaurantDetail(d.Catalog, d.Renderer, d.Cart, d.Sessions, d.Logger))
	if d.Listings != nil {
		r.Get("/special", controllers.SpecialListings(d.Listings, d.Renderer, d.Cart, d.Sessions, d.Logger))
	}

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", controllers.CartPage(d.Cart, d.Renderer, d.Sessions))
		r.Post("/items", controllers.CartAdd(d.Cart, d.Catalog, d.Logger))
		r.Post("/items/{itemId}", controllers.CartUpdate(d.Cart, d.Logger))
		r.Post("/items/{itemId}/remove", controllers.CartRemove(d.Cart))
		r.Post("/conflict", controllers.CartResolveConflict(d.Cart, d.Logger))
		r.Post("/clear", controllers.CartClear(d.Cart))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(d.Sessions, d.Logger))

		r.Post("/checkout", controllers.Checkout(d.Checkout, d.Sessions, d.Logger))
		r.Get("/orders", controllers.OrderList(d.Orders, d.Realtime, d.Renderer, d.Cart, d.Sessions, d.Logger))
		r.Get("/orders/{orderId}", controllers.OrderDetail(d.Orders, d.Realtime, d.Renderer, d.Cart, d.Sessions, d.Logger))
		r.Post("/orders/{orderId}/refund", controllers.RefundRequest(d.Credits, d.Sessions, d.Logger))

		r.Get("/profile", controllers.Profile(d.Credits, d.Renderer, d.Cart, d.Sessions, d.Logger))
		r.Get("/credits", controllers.CreditsPage(d.Credits, d.Renderer, d.Cart, d.Sessions, d.Logger))
		r.Post("/credits/add", controllers.CreditsAdd(d.Credits, d.Renderer, d.Cart, d.Sessions, d.Logger))

		r.Get("/events/stream", controllers.EventStream(d.Realtime, d.Logger))
		if d.Directions != nil {
			r.Get("/route", controllers.Directions(d.Directions, d.Logger))
		}
	})

	r.Route("/picker", func(r chi.Router) {
		r.Use(middleware.RequireRole(d.Sessions, accounts.RolePicker, d.Logger))

		r.Get("/", controllers.PickerDashboard(d.Orders, d.Realtime, d.Renderer, d.Cart, d.Sessions, d.Logger))
		r.Post("/accept", controllers.PickerAccept(d.Orders, d.Sessions, d.Logger))
		r.Post("/orders/{orderId}/status", controllers.PickerStatus(d.Orders, d.Sessions, d.Logger))
		r.Post("/orders/{orderId}/location", controllers.PickerLocation(d.Orders, d.Sessions, d.Logger))
	})

	return r
}
