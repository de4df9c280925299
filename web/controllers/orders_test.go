package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/orders"
)

type stubOrderReader struct {
	orders map[string]*orders.Order
	list   []orders.Order
}

func (s *stubOrderReader) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	return s.orders[orderID], nil
}

func (s *stubOrderReader) ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	return s.list, nil
}

type stubRegistrar struct {
	single []string
	bulk   []string
}

func (s *stubRegistrar) RegisterForOrderUpdates(ctx context.Context, customerID, orderID string) {
	s.single = append(s.single, orderID)
}

func (s *stubRegistrar) RegisterForAllCustomerOrders(ctx context.Context, customerID string, orderIDs []string) {
	s.bulk = append(s.bulk, orderIDs...)
}

func TestOrderListRegistersOpenOrdersOnly(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	reader := &stubOrderReader{list: []orders.Order{
		{ID: "o-1", CustomerID: "cust-1", Status: orders.StatusDelivering},
		{ID: "o-2", CustomerID: "cust-1", Status: orders.StatusCompleted},
		{ID: "o-3", CustomerID: "cust-1", Status: orders.StatusPending},
	}}
	registrar := &stubRegistrar{}

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	OrderList(reader, registrar, env.renderer, env.cart, env.sessions, env.logg)(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"o-1", "o-3"}, registrar.bulk)
	assert.Contains(t, w.Body.String(), "o-2")
}

func TestOrderDetailRegistersAndRenders(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	reader := &stubOrderReader{orders: map[string]*orders.Order{
		"o-1": {ID: "o-1", CustomerID: "cust-1", Status: orders.StatusPreparing},
	}}
	registrar := &stubRegistrar{}

	r := httptest.NewRequest(http.MethodGet, "/orders/o-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", "o-1")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	OrderDetail(reader, registrar, env.renderer, env.cart, env.sessions, env.logg)(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"o-1"}, registrar.single)
	assert.Contains(t, w.Body.String(), "preparing")
}

func TestOrderDetailHidesOtherCustomersOrders(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	reader := &stubOrderReader{orders: map[string]*orders.Order{
		"o-1": {ID: "o-1", CustomerID: "someone-else", Status: orders.StatusPreparing},
	}}
	registrar := &stubRegistrar{}

	r := httptest.NewRequest(http.MethodGet, "/orders/o-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", "o-1")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	OrderDetail(reader, registrar, env.renderer, env.cart, env.sessions, env.logg)(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, registrar.single)
}
