package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTP() *httpx.Client {
	return httpx.New(config.HTTPConfig{Timeout: 2 * time.Second, RetryBaseWait: time.Millisecond})
}

func TestDirections(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/directions", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NotEmpty(t, r.URL.Query().Get("origin"))
		w.Write([]byte(`{"routes":[{"polyline":{"encodedPolyline":"abc123"},"duration":"540s","distanceMeters":1200}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.RoutingConfig{APIKey: "test-key"}, newHTTP(), WithBaseURL(srv.URL))
	require.NoError(t, err)

	route, err := client.Directions(context.Background(), Point{Lat: 1.29, Lng: 103.77}, Point{Lat: 1.30, Lng: 103.78})
	require.NoError(t, err)
	assert.Equal(t, "abc123", route.Polyline)
	assert.Equal(t, 540, route.DurationSeconds)
	assert.Equal(t, 1200, route.DistanceMeters)
}

func TestDirectionsNoRoute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.RoutingConfig{APIKey: "test-key", BaseURL: srv.URL}, newHTTP())
	require.NoError(t, err)

	_, err = client.Directions(context.Background(), Point{}, Point{})
	require.Error(t, err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.RoutingConfig{}, newHTTP())
	require.ErrorIs(t, err, errAPIKeyRequired)
}

func TestParseDurationSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 540, parseDurationSeconds("540s"))
	assert.Equal(t, 0, parseDurationSeconds(""))
	assert.Equal(t, 0, parseDurationSeconds("not-a-duration"))
}
