package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

// auditHandler appends each entry event as one JSON line to w.
// A failed append is returned to the consumer so the delivery is requeued.
func auditHandler(w io.Writer, logger *applog.Logger) func(*events.EntryEvent) error {
	var mu sync.Mutex
	return func(event *events.EntryEvent) error {
		line, err := event.ToJSON()
		if err != nil {
			return fmt.Errorf("encode audit record: %w", err)
		}

		mu.Lock()
		_, err = w.Write(append(line, '\n'))
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("append audit record: %w", err)
		}

		logger.Info("Entry event recorded",
			"action", event.Action,
			applog.FieldEntryKind, event.Kind,
			applog.FieldEntryID, event.EntryID,
			applog.FieldUserID, event.UserID,
			applog.FieldAmountCents, event.AmountCents)
		return nil
	}
}

func main() {
	// .env is optional, environment wins
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentEvents,
	})
	applog.SetDefault(logger)

	// Unlike the API server, the worker has no job without a broker.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set",
			applog.FieldOperation, applog.OpStartup)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.AuditLogPath), 0755); err != nil {
		logger.Error("Failed to create audit log directory",
			applog.FieldError, err.Error())
		os.Exit(1)
	}
	audit, err := os.OpenFile(cfg.AuditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error("Failed to open audit log",
			applog.FieldError, err.Error(),
			"path", cfg.AuditLogPath)
		os.Exit(1)
	}
	defer audit.Close()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker",
			applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting fintrack worker",
		"queue", cfg.AMQPQueue,
		"audit_log", cfg.AuditLogPath,
		applog.FieldOperation, applog.OpStartup)

	err = client.ConsumeEntryEvents(ctx, auditHandler(audit, logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully",
		applog.FieldOperation, applog.OpShutdown)
}
