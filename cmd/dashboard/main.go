package main

import (
	"cmp"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/InfinityAbhi/Growth-High-AI/internal/account"
	"github.com/InfinityAbhi/Growth-High-AI/internal/ai"
	"github.com/InfinityAbhi/Growth-High-AI/internal/api"
	"github.com/InfinityAbhi/Growth-High-AI/internal/auth"
	"github.com/InfinityAbhi/Growth-High-AI/internal/config"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/market"
	"github.com/InfinityAbhi/Growth-High-AI/internal/postgres"
	"github.com/InfinityAbhi/Growth-High-AI/internal/server"
	"github.com/InfinityAbhi/Growth-High-AI/internal/store"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const _cfgFilePath = "./configs/dashboard.yaml"

func main() {
	envLoaded := godotenv.Load() == nil

	cfg, err := config.LoadDashboardConfig(_cfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if !envLoaded {
		zapLogger.Warnf("can't detect .env file")
	}

	// Dashboard clients expect plain JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	directory := account.NewDirectory(decimal.NewFromFloat(cfg.Ledger.InitialCash), zapLogger)
	quotes := market.NewQuoteService(cfg.Market, zapLogger)
	news := market.NewNewsFeed()

	aiClient := ai.NewClient(cfg.AI, os.Getenv("GROQ_API_KEY"), zapLogger)
	aiService := ai.NewService(aiClient, cfg.AI, zapLogger)

	tokens := auth.NewManager(cmp.Or(os.Getenv("JWT_SECRET"), "your-secret-key"), cfg.Auth.TokenTTL)

	if cfg.Storage.Enabled {
		db, err := postgres.NewDB(postgres.NewConfigFromEnv().Setup())
		if err != nil {
			zapLogger.Fatalf("%s: can't connect to postgres", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				zapLogger.Errorf("%s: can't close db", err)
			}
		}()

		snapshots := store.NewSnapshotStore(db, directory, cfg.Storage.FlushInterval, zapLogger)
		if err := snapshots.EnsureSchema(ctx); err != nil {
			zapLogger.Fatalf("%s: can't ensure schema", err)
		}
		if err := snapshots.RestoreLedgers(ctx); err != nil {
			zapLogger.Fatalf("%s: can't restore ledgers", err)
		}
		go snapshots.Run(ctx)
	}

	handler := api.NewHandler(directory, quotes, news, aiService, tokens, zapLogger)

	zapLogger.Infof("dashboard listening on :%s", cfg.Server.Port)
	if err := server.NewHTTPServer(ctx, cfg.Server.Port, handler).Run(ctx); err != nil {
		zapLogger.Fatalf("%s: server stopped", err)
	}
}
