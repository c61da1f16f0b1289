package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"menu-highlights/internal/adapters/telegram"
	"menu-highlights/internal/app"
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
		logger.Warn().Err(envErr).Msg("announcer: .env not loaded")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Fatal().Msg("announcer: TG_BOT_TOKEN and TG_CHAT_ID are required")
	}
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("announcer: failed to create bot")
	}

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("announcer: failed to open stores")
	}
	defer stores.Close()

	announceQueue, err := stores.AnnounceQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("announcer: failed to open queue")
	}

	service := announce.NewService(
		stores.Snapshots,
		announceQueue,
		telegram.NewAnnouncer(botAPI, cfg.Telegram.ChatID),
		stores.Cache,
		cfg.SnapshotID,
		applog.Component(logger, "announce"),
	)

	logger.Info().Msg("announcer: consuming queue")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("announcer: stopped with error")
	}
	logger.Info().Msg("announcer: stopped")
}
