package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"menu-highlights/internal/adapters/httpapi"
	"menu-highlights/internal/app"
	"menu-highlights/internal/infra/config"
	httpinfra "menu-highlights/internal/infra/http"
	applog "menu-highlights/internal/infra/log"
	"menu-highlights/internal/infra/metrics"
	"menu-highlights/internal/usecase/announce"
	"menu-highlights/internal/usecase/dashboard"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("api: .env not loaded")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to open stores")
	}
	defer stores.Close()

	if cfg.Catalog.SeedFile != "" {
		n, err := app.SeedCatalog(ctx, stores.Products, cfg.Catalog.SeedFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.Catalog.SeedFile).Msg("api: failed to seed catalog")
		}
		logger.Info().Int("products", n).Msg("api: catalog seeded")
	}

	session := dashboard.NewSession(stores.Snapshots, stores.Catalog, logger, dashboard.Options{
		SnapshotID: cfg.SnapshotID,
		MaxPrice:   cfg.Catalog.DefaultMaxPrice,
	})
	if err := session.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api: failed to load session")
	}

	opts := []httpapi.Option{httpapi.WithLogger(applog.Component(logger, "httpapi"))}
	if announceQueue, err := stores.AnnounceQueue(cfg); err != nil {
		logger.Warn().Err(err).Msg("api: announcements disabled")
	} else {
		service := announce.NewService(stores.Snapshots, announceQueue, nil, stores.Cache, cfg.SnapshotID, applog.Component(logger, "announce"))
		opts = append(opts, httpapi.WithAnnounce(service))
	}

	server := httpinfra.NewServer(logger)
	httpapi.NewServer(session, opts...).Mount(server.Router)

	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("api: server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	if err := session.Save(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: final snapshot save failed")
	}
}
