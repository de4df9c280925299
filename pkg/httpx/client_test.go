package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
)

func testConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Timeout:       2 * time.Second,
		RetryAttempts: 2,
		RetryBaseWait: time.Millisecond,
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	client := New(testConfig())
	if err := client.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK {
		t.Fatal("expected decoded body")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGetJSONDoesNotRetryNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := New(testConfig()).GetJSON(context.Background(), srv.URL, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", got)
	}
}

func TestPostJSONIsSingleShot(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(testConfig()).PostJSON(context.Background(), srv.URL, map[string]string{"a": "b"}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("writes must not be retried, got %d attempts", got)
	}
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeUnauthorized},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusServiceUnavailable, pkgerrors.CodeUnavailable},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		err := New(testConfig()).PostJSON(context.Background(), srv.URL, nil, nil)
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("status %d: expected code %s, got %v", tc.status, tc.code, err)
		}
		srv.Close()
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := New(testConfig()).PostJSON(context.Background(), srv.URL, nil, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnavailable) {
		t.Fatalf("expected unavailable on refused connection, got %v", err)
	}
}
