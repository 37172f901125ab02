// Package main implements the notification worker: a standalone consumer
// that drains the high-priority task queue and performs the alert
// side effect for each message.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskpulse/taskpulse-api/internal/config"
	"github.com/taskpulse/taskpulse-api/internal/notify"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/platform/redisconn"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := redisconn.New(ctx, cfg.Redis, appLogger)
	if client == nil {
		log.Fatal("Redis address is required for the notification worker")
	}
	defer func() {
		if err := client.Close(); err != nil {
			appLogger.Error("Error closing redis client", "error", err)
		}
	}()

	consumer := notify.NewConsumer(client, cfg.Redis.Queue, notify.NewLogHandler(appLogger), appLogger)

	// Stop the consumer loop on SIGINT/SIGTERM; in-flight messages finish
	// before Run returns.
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdownCh
		appLogger.Info("Shutting down notification worker", "signal", sig.String())
		cancel()
	}()

	appLogger.Info("Notification worker started", "queue", cfg.Redis.Queue)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer error: %v", err)
	}

	appLogger.Info("Notification worker stopped")
}
