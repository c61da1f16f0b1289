package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"menu-highlights/internal/adapters/bot"
	"menu-highlights/internal/app"
	"menu-highlights/internal/infra/config"
	httpinfra "menu-highlights/internal/infra/http"
	applog "menu-highlights/internal/infra/log"
	"menu-highlights/internal/infra/metrics"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("bot-gateway: .env not loaded")
	}

	loc, err := time.LoadLocation(cfg.Announce.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.Announce.TZ).Msg("bot-gateway: invalid TZ")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot-gateway: failed to open stores")
	}
	defer stores.Close()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot-gateway: failed to create bot")
	}

	h := bot.NewHandler(botAPI, applog.Component(logger, "bot"), stores.Snapshots, cfg.SnapshotID, loc)

	if !cfg.Telegram.Webhook {
		poll(ctx, botAPI, h)
		logger.Info().Msg("bot-gateway: stopped")
		return
	}

	server := httpinfra.NewServer(logger)
	server.Router.Post("/bot/webhook", func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("bot-gateway: server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("bot-gateway: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func poll(ctx context.Context, botAPI *tgbotapi.BotAPI, h *bot.Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := botAPI.GetUpdatesChan(u)
	defer botAPI.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, upd)
		}
	}
}
