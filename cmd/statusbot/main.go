// Command statusbot runs the application-status Telegram bot: it watches
// one operations chat for tracking identifiers, posts status cards looked
// up from Postgres, and serves refresh button presses. It runs until
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/Smacktur/adg-info-bot/internal/bot"
	"github.com/Smacktur/adg-info-bot/internal/config"
	"github.com/Smacktur/adg-info-bot/internal/gate"
	httpops "github.com/Smacktur/adg-info-bot/internal/http"
	"github.com/Smacktur/adg-info-bot/internal/observability"
	"github.com/Smacktur/adg-info-bot/internal/repo"
	"github.com/Smacktur/adg-info-bot/internal/services"
	"github.com/Smacktur/adg-info-bot/internal/state"
	"github.com/Smacktur/adg-info-bot/internal/sysutil"
	"github.com/Smacktur/adg-info-bot/internal/telegram"
)

// version is stamped via -ldflags at release time.
var version = "dev"

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	logger := sysutil.NewLogger(cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenPostgres(cfg.DB.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			logger.Fatal().Err(err).Msg("instrument database")
		}
	}

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("setup tracing")
	}

	client := telegram.NewClient(nil, cfg.Telegram.BaseURL, cfg.Telegram.Token)
	me, err := client.GetMe(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram getMe")
	}
	logger.Info().Str("bot", me.Username).Int64("chat_id", cfg.Telegram.AllowedChatID).Msg("starting")

	svc := &services.StatusService{
		Store:           &repo.StatusStore{DB: db},
		Gateway:         client,
		Registry:        state.NewRegistry(cfg.RegistryCapacity, logger),
		Gate:            gate.New(cfg.Telegram.AllowedChatID, cfg.RefreshCooldown),
		AllowedChatID:   cfg.Telegram.AllowedChatID,
		MentionRequired: cfg.Telegram.MentionRequired,
		BotUsername:     me.Username,
		StoreTimeout:    cfg.StoreTimeout,
	}

	var ops *http.Server
	if cfg.OpsPort != "" {
		ops = httpops.NewServer(cfg.OpsPort, httpops.NewRouter())
		go func() {
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("ops server")
			}
		}()
	}

	b := &bot.Bot{
		Poller:      client,
		Service:     svc,
		Log:         logger,
		PollTimeout: cfg.Telegram.PollTimeout,
	}
	if err := b.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("poll loop")
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ops != nil {
		_ = ops.Shutdown(shutdownCtx)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
