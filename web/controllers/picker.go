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

type pickerOrders interface {
	ListPending(ctx context.Context) ([]orders.Order, error)
	ListByPicker(ctx context.Context, pickerID string) ([]orders.Order, error)
	Accept(ctx context.Context, orderID, pickerID string) error
	UpdateStatus(ctx context.Context, orderID string, status orders.Status) error
	UpdateLocation(ctx context.Context, orderID, location string) error
}

type pickerRealtime interface {
	Connect(ctx context.Context)
	RegisterAsPicker(ctx context.Context, pickerID string)
	IsConnected() bool
}

type pickerPage struct {
	Page
	Connected bool
	Waiting   []orders.Order
	Accepted  []orders.Order
}

// PickerDashboard renders the waiting queue and the picker's own deliveries.
// Loading the dashboard announces the picker to the assignment stream.
func PickerDashboard(svc pickerOrders, rt pickerRealtime, renderer *views.Renderer, cartStore *cart.Store, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil || user.Role != accounts.RolePicker {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		rt.Connect(r.Context())
		rt.RegisterAsPicker(r.Context(), user.ID)

		waiting, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accepted, err := svc.ListByPicker(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		renderer.Render(r.Context(), w, "picker", pickerPage{
			Page:      newPage("Picker dashboard", cartStore, sessions),
			Connected: rt.IsConnected(),
			Waiting:   waiting,
			Accepted:  accepted,
		})
	}
}

// PickerAccept claims a waiting order for the signed-in picker.
func PickerAccept(svc pickerOrders, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil || user.Role != accounts.RolePicker {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "picker account required"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		orderID := r.PostFormValue("order_id")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required"))
			return
		}

		if err := svc.Accept(r.Context(), orderID, user.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/picker", http.StatusSeeOther)
	}
}

// PickerStatus moves one of the picker's orders through its lifecycle.
func PickerStatus(svc pickerOrders, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil || user.Role != accounts.RolePicker {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "picker account required"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		status := orders.Status(r.PostFormValue("status"))
		switch status {
		case orders.StatusPreparing, orders.StatusDelivering, orders.StatusCompleted:
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status must be preparing, delivering or completed"))
			return
		}

		if err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/picker", http.StatusSeeOther)
	}
}

// PickerLocation reports where the picker currently is for an order.
func PickerLocation(svc pickerOrders, sessions *accounts.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.Current()
		if user == nil || user.Role != accounts.RolePicker {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "picker account required"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		location := r.PostFormValue("location")
		if location == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "location is required"))
			return
		}

		if err := svc.UpdateLocation(r.Context(), chi.URLParam(r, "orderId"), location); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, "/picker", http.StatusSeeOther)
	}
}
