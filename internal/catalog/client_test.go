package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stallJSON = `{
	"id": "stall-1",
	"stall_name": "Uncle Tan Chicken Rice",
	"stall_image": "http://img/stall-1.jpg",
	"stall_description": "Famous chicken rice since 1987",
	"rating": 4.6,
	"review_count": 212,
	"cuisines": ["Chinese", "Halal"],
	"preparation_time_mins": 15,
	"delivery_fee": "1.50",
	"stall_location": "Canteen A #01-12",
	"is_promoted": true,
	"menu": [
		{"id": "m1", "food_name": "Chicken Rice", "food_price": "4.50", "food_description": "Steamed", "food_category": "Mains", "food_image": "http://img/m1.jpg"},
		{"id": "m2", "food_name": "Iced Tea", "food_price": "1.20", "food_description": "", "food_category": "Drinks", "food_image": ""}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, httpx.New(config.HTTPConfig{Timeout: 2 * time.Second, RetryBaseWait: time.Millisecond}))
	require.NoError(t, err)
	return client, srv
}

func TestListRestaurantsMapsWireShape(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stalls", r.URL.Path)
		w.Write([]byte("[" + stallJSON + "]"))
	}))

	restaurants, err := client.ListRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 1)

	r := restaurants[0]
	assert.Equal(t, "stall-1", r.ID)
	assert.Equal(t, "Uncle Tan Chicken Rice", r.Name)
	assert.Equal(t, 15, r.DeliveryTime)
	assert.Equal(t, "1.5", r.DeliveryFee.String())
	assert.Equal(t, "Canteen A #01-12", r.Location)
	assert.True(t, r.IsPromoted)
	require.Len(t, r.Menu, 2)
	assert.Equal(t, "Chicken Rice", r.Menu[0].Name)
	assert.Equal(t, "4.5", r.Menu[0].Price.String())
}

func TestGetRestaurantByID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stalls/stall-1", r.URL.Path)
		w.Write([]byte(stallJSON))
	}))

	restaurant, err := client.GetRestaurant(context.Background(), "stall-1")
	require.NoError(t, err)
	assert.Equal(t, "Uncle Tan Chicken Rice", restaurant.Name)
}

func TestGetMenu(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stalls/stall-1/menu", r.URL.Path)
		w.Write([]byte(`[{"id":"m1","food_name":"Laksa","food_price":"5.80","food_category":"Mains"}]`))
	}))

	menu, err := client.GetMenu(context.Background(), "stall-1")
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Laksa", menu[0].Name)
	assert.Equal(t, "5.8", menu[0].Price.String())
}

func TestGetRestaurantNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetRestaurant(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", httpx.New(config.HTTPConfig{})); err == nil {
		t.Fatal("expected empty base url to be rejected")
	}
	if _, err := NewClient("http://x", nil); err == nil {
		t.Fatal("expected nil http client to be rejected")
	}
}
