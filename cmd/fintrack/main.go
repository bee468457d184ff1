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

	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	// .env is optional, environment wins
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpStartup)
		os.Exit(1)
	}

	store, err := backend.NewFactory(logger.Logger).CreateStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage",
			applog.FieldError, err.Error(),
			applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	// Events are optional: without an AMQP URL the service runs standalone.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Event publishing disabled, AMQP unavailable",
				applog.FieldError, err.Error())
			eventsClient = nil
		} else {
			logger.Info("Connected to AMQP broker", "exchange", cfg.AMQPExchange)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	entryService := services.NewEntryService(store, eventsClient)
	dashboardService := services.NewDashboardService(store)
	defer func() {
		if err := entryService.Close(); err != nil {
			logger.Error("Cleanup error", applog.FieldError, err.Error())
		}
	}()

	srv := apphttp.NewServer(cfg, logger, store, tokens, entryService, dashboardService)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			"signal", sig.String(),
			applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
