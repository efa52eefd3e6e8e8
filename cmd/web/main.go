package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/app"
	"github.com/aliskhannn/trivia-quiz/internal/config"
	"github.com/aliskhannn/trivia-quiz/internal/delivery/web"
	"github.com/aliskhannn/trivia-quiz/internal/logger"
	"github.com/aliskhannn/trivia-quiz/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg, "web")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := app.NewQuestionSource(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to set up question source", zap.Error(err))
	}
	defer src.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := metrics.New(reg)
	src.StartReporter(ctx, m, lg)

	server := web.NewServer(src.Supplier, m, reg, lg.Named("web"))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		lg.Info("web server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("web server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("web server shutdown failed", zap.Error(err))
	}
}
