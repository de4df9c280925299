package credits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/credit", srv.URL+"/payment", httpx.New(config.HTTPConfig{Timeout: 2 * time.Second, RetryBaseWait: time.Millisecond}))
	require.NoError(t, err)
	return client
}

func TestAddCreditsSendsDecimalAmount(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credit/credits/add", r.URL.Path)
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"10.5"`, string(body["amount"]))
		w.Write([]byte(`{"balance":"22.90"}`))
	})

	balance, err := client.AddCredits(context.Background(), "cust-1", decimal.RequireFromString("10.5"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("22.90")))
}

func TestBalance(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credit/credits/cust-1", r.URL.Path)
		w.Write([]byte(`{"balance":12.4}`))
	})

	balance, err := client.Balance(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "12.4", balance.String())
}

func TestPayTargetsPaymentService(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/payments", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	err := client.Pay(context.Background(), "cust-1", "order-1", decimal.RequireFromString("13.25"))
	require.NoError(t, err)
}

func TestRequestRefundSurfacesConflict(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	err := client.RequestRefund(context.Background(), "cust-1", "order-1", "order never arrived")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
