package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/cartid"
	"github.com/angelmondragon/storefront/internal/workspace"
	"github.com/angelmondragon/storefront/pkg/catalogapi"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/session"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := session.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open client state store", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := catalogapi.NewClient(
		catalogapi.WithBaseURL(cfg.API.BaseURL),
		catalogapi.WithTimeout(cfg.API.Timeout),
		catalogapi.WithStaticToken(cfg.API.Token),
		catalogapi.WithMetrics(metrics.NewCatalogMetrics(promReg)),
		catalogapi.WithLogger(logg),
	)

	registry, err := workspace.NewRegistry(workspace.Params{
		Logger:          logg,
		Catalog:         client,
		Carts:           cartid.NewResolver(client, logg),
		Store:           store,
		Metrics:         metrics.NewViewMetrics(promReg),
		PageSize:        cfg.UI.PageSize,
		NotificationTTL: cfg.UI.NotificationTTL,
		IdleTTL:         cfg.Workspace.IdleTTL,
		SweepInterval:   cfg.Workspace.SweepInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create workspace registry", err)
		_ = closeStore()
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"store_driver": cfg.Store.Driver,
		"catalog_url":  cfg.API.BaseURL,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Workspaces: registry,
			Store:      store,
			Gatherer:   promReg,
		}),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down storefront server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		runErr = server.Shutdown(shutdownCtx)
		cancel()
	}

	registry.Close()
	if err := multierr.Append(runErr, closeStore()); err != nil {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
