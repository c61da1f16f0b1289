package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"menu-highlights/internal/app"
	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/config"
	applog "menu-highlights/internal/infra/log"
	"menu-highlights/internal/infra/metrics"
	"menu-highlights/internal/usecase/announce"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("scheduler: .env not loaded")
	}

	at, err := announce.ParseLocalTime(cfg.Announce.At)
	if err != nil {
		logger.Fatal().Err(err).Str("value", cfg.Announce.At).Msg("scheduler: invalid ANNOUNCE_AT")
	}
	loc, err := time.LoadLocation(cfg.Announce.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.Announce.TZ).Msg("scheduler: invalid TZ")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: failed to open stores")
	}
	defer stores.Close()

	announceQueue, err := stores.AnnounceQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: failed to open queue")
	}
	service := announce.NewService(stores.Snapshots, announceQueue, nil, stores.Cache, cfg.SnapshotID, applog.Component(logger, "announce"))

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	logger.Info().Str("at", cfg.Announce.At).Str("tz", loc.String()).Msg("scheduler: started")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler: stopped")
			return
		case now := <-ticker.C:
			if !announce.Due(now, at, loc) {
				continue
			}
			day := domain.WeekDayOf(now.In(loc))
			job, err := service.Enqueue(ctx, day, domain.AnnounceCauseScheduled)
			if err != nil {
				logger.Error().Err(err).Str("day", day.Name()).Msg("scheduler: enqueue failed")
				continue
			}
			logger.Info().Str("job", job.ID).Str("day", day.Name()).Msg("scheduler: announcement queued")
		}
	}
}
