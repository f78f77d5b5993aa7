package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/config"
	"github.com/thenromanov/stats-service/internal/consumer"
	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/handler"
	"github.com/thenromanov/stats-service/internal/logger"
	"github.com/thenromanov/stats-service/internal/repository/clickhouse"
	"github.com/thenromanov/stats-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		if err := log.Sync(); err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting stats service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()
	shutdownTimeout := time.Duration(cfg.Service.ShutdownTimeoutSec) * time.Second

	// Store first: the process must not serve without a working read path.
	chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	repo := clickhouse.NewRepository(chClient, log)

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	loop, err := consumer.NewLoop(cfg.Kafka, domain.PostActionTopics, repo, shutdownTimeout, log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	loop.Start(ctx)

	statsService := service.NewStatsService(repo, log)
	h := handler.NewHandler(statsService, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler: h,
	}

	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var fatalErr error
	select {
	case <-sigChan:
		log.Info("Shutting down")
	case fatalErr = <-loop.Fatal():
		log.Error("Consumer loop failed, shutting down", zap.Error(fatalErr))
	}

	loop.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", zap.Error(err))
	}

	if fatalErr != nil {
		log.Fatal("Ingestion path lost", zap.Error(fatalErr))
	}
}
