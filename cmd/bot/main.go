package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/app"
	"github.com/aliskhannn/trivia-quiz/internal/config"
	"github.com/aliskhannn/trivia-quiz/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-quiz/internal/logger"
	"github.com/aliskhannn/trivia-quiz/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg, "bot")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.TelegramAPIToken == "" {
		lg.Fatal("TELEGRAM_API_TOKEN is required", zap.Error(config.ErrMissingEnvironmentVariables))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "About the bot",
		},
		{
			Command:     "quiz",
			Description: "Start a new quiz",
		},
		{
			Command:     "stop",
			Description: "Stop the current quiz",
		},
	}

	_, err = bot.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := app.NewQuestionSource(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to set up question source", zap.Error(err))
	}
	defer src.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	src.StartReporter(ctx, m, lg)

	metricsSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("metrics server failed", zap.Error(err))
		}
	}()

	handler := telegram.NewHandler(bot, lg, src.Supplier, m)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler failed", zap.Error(err))
	}

	lg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
