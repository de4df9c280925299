package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

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
	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/pkg/metrics"
	"github.com/campusbites/campusbites-client/web/routes"
	"github.com/campusbites/campusbites-client/web/views"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "webclient"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "webclient",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry)

	store, err := newStateStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open state store", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(ctx, store, logg, clientMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build cart store", err)
		os.Exit(1)
	}

	sessions, err := accounts.NewSession(ctx, store, logg)
	if err != nil {
		logg.Error(ctx, "failed to build session store", err)
		os.Exit(1)
	}

	httpClient := httpx.New(cfg.HTTP)

	accountsClient, err := accounts.NewClient(cfg.Services.Customer, cfg.Services.Picker, httpClient)
	if err != nil {
		logg.Error(ctx, "failed to build accounts client", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(cfg.Services.Stall, httpClient)
	if err != nil {
		logg.Error(ctx, "failed to build catalog client", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(cfg.Services.Order, cfg.Services.Assignment, httpClient)
	if err != nil {
		logg.Error(ctx, "failed to build orders client", err)
		os.Exit(1)
	}

	creditsClient, err := credits.NewClient(cfg.Services.Credit, cfg.Services.Payment, httpClient)
	if err != nil {
		logg.Error(ctx, "failed to build credits client", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartStore, ordersClient, creditsClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	var directionsClient *routing.Client
	if cfg.Routing.APIKey != "" {
		directionsClient, err = routing.NewClient(cfg.Routing, httpClient)
		if err != nil {
			logg.Error(ctx, "failed to build directions client", err)
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "no routing api key, route endpoint disabled")
	}

	var listingsClient *listings.Client
	if cfg.Listings.BaseURL != "" {
		listingsClient, err = listings.NewClient(cfg.Listings, httpClient)
		if err != nil {
			logg.Error(ctx, "failed to build listings client", err)
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "no listings base url, special listings page disabled")
	}

	rt := realtime.NewClient(
		cfg.Realtime.Endpoint,
		realtime.NewWebsocketDialer(cfg.Realtime.WriteTimeout),
		logg,
		clientMetrics,
	)
	rt.Connect(ctx)

	renderer, err := views.NewRenderer(logg)
	if err != nil {
		logg.Error(ctx, "failed to parse templates", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			Renderer:   renderer,
			Registry:   registry,
			Sessions:   sessions,
			Accounts:   accountsClient,
			Cart:       cartStore,
			Catalog:    catalogClient,
			Orders:     ordersClient,
			Credits:    creditsClient,
			Checkout:   checkoutService,
			Realtime:   rt,
			Directions: directionsClient,
			Listings:   listingsClient,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		startCtx := logg.WithFields(ctx, map[string]any{
			"env":  cfg.App.Env,
			"addr": addr,
		})
		logg.Info(startCtx, "starting web client")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "web client stopped unexpectedly", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	rt.Disconnect()
	closeErr = multierr.Append(closeErr, store.Close())
	if closeErr != nil {
		logg.Error(context.Background(), "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
}

func newStateStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (localstore.Store, error) {
	if cfg.State.Backend == config.StateBackendRedis {
		logg.Info(logg.WithField(ctx, "backend", cfg.State.Backend), "using redis state store")
		return localstore.NewRedisStore(ctx, cfg.State)
	}
	logg.Info(logg.WithField(ctx, "dir", cfg.State.Dir), "using file state store")
	return localstore.NewFileStore(cfg.State.Dir)
}
