package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/app"
	"kitchen-companion/internal/config"
	"kitchen-companion/internal/database"
	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/logging"
	"kitchen-companion/internal/metrics"
	"kitchen-companion/internal/quota"
	"kitchen-companion/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// 2. Storage
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	prom := metrics.NewProm()

	var store quota.Store = quota.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := quota.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info("Using Redis quota store")
	}

	// 3. LLM provider
	textGen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer textGen.Close()

	// 4. Application and HTTP server
	application := app.NewApp(cfg, textGen, quota.NewGate(store), metricsStore, prom, logger)
	handler := server.New(cfg, application, metricsStore, prom, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Kitchen Companion server listening",
			zap.String("port", cfg.Port),
			zap.String("prefix", cfg.APIPrefix),
			zap.String("provider", cfg.LLMProvider),
			zap.String("model", cfg.ProviderModel()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
