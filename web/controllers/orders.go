package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/internal/orders"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
	"github.com/campusbites/campusbites-client/web/views"
)

type orderReader interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error)
}

type orderRegistrar interface {
	RegisterForOrderUpdates(ctx context.Context, customerID, orderID string)
	RegisterForAllCustomerOrders(ctx context.Context, customerID string, orderIDs []string)
}

type orderListPage struct {
	Page
	Orders []orders.Order
}

// OrderList renders the customer's order history and registers every open
// order for realtime updates.
func OrderList(svc orderReader, registrar orderRegistrar, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		list, err := svc.ListByCustomer(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var open []string
		for _, order := range list {
			if order.Status != orders.StatusCompleted && order.Status != orders.StatusCancelled {
				open = append(open, order.ID)
			}
		}
		if len(open) > 0 {
			registrar.RegisterForAllCustomerOrders(r.Context(), user.ID, open)
		}

		renderer.Render(r.Context(), w, "orders", orderListPage{
			Page:   newPage("Orders", cartStore, sessions),
			Orders: list,
		})
	}
}

type orderDetailPage struct {
	Page
	Order *orders.Order
}

// OrderDetail renders one order's tracking page and registers it for
// realtime updates.
func OrderDetail(svc orderReader, registrar orderRegistrar, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		orderID := chi.URLParam(r, "orderId")
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order == nil || order.CustomerID != user.ID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		registrar.RegisterForOrderUpdates(r.Context(), user.ID, orderID)

		renderer.Render(r.Context(), w, "order", orderDetailPage{
			Page:  newPage("Order "+orderID, cartStore, sessions),
			Order: order,
		})
	}
}
