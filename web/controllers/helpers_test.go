package controllers

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/views"
)

type testEnv struct {
	logg     *logger.Logger
	renderer *views.Renderer
	sessions *accounts.Session
	cart     *cart.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	store, err := localstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	renderer, err := views.NewRenderer(logg)
	require.NoError(t, err)

	sessions, err := accounts.NewSession(context.Background(), store, logg)
	require.NoError(t, err)

	cartStore, err := cart.NewStore(context.Background(), store, logg, nil)
	require.NoError(t, err)

	return &testEnv{
		logg:     logg,
		renderer: renderer,
		sessions: sessions,
		cart:     cartStore,
	}
}

func (e *testEnv) signIn(t *testing.T, user accounts.User) {
	t.Helper()
	e.sessions.SignIn(context.Background(), user)
}
