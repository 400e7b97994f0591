package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openagora/agora/internal/ingest"
	"github.com/openagora/agora/internal/llm"
	"github.com/openagora/agora/internal/publisher"
	"github.com/openagora/agora/internal/query"
	"github.com/openagora/agora/internal/registry"
	"github.com/openagora/agora/internal/server"
	"github.com/openagora/agora/internal/storage"
	"github.com/openagora/agora/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", cfgPath))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Build the provider fallback chain
	providers := llm.BuildProviders(cfg.Providers, logger)
	if len(providers) == 0 {
		logger.Warn("No providers configured; every request will serve static fallback responses")
	}
	chain := llm.NewChain(providers, cfg.Generation.Temperature, cfg.Generation.MaxTokens, logger)

	// Wire the working-group components
	groups := registry.New(store, logger)
	pipeline := ingest.NewPipeline(store, ingest.NewHeuristicScorer(5), logger)
	engine := query.NewEngine(store, chain, query.NewKeywordRetriever(), logger)

	// Optional transcript publisher
	var pub publisher.Publisher
	if cfg.Publisher.TelegramToken != "" {
		pub, err = publisher.NewTelegramPublisher(cfg.Publisher.TelegramToken, cfg.Publisher.ChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize transcript publisher", zap.Error(err))
			pub = nil
		}
	}

	srv := server.New(cfg.Server.Addr, chain, store, groups, pipeline, engine, pub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
