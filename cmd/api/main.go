package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaglecrew/rules-service/internal/api"
	"github.com/eaglecrew/rules-service/internal/core/service"
	"github.com/eaglecrew/rules-service/internal/infrastructure/config"
	mongodb "github.com/eaglecrew/rules-service/internal/infrastructure/db/mongo"
	redisdb "github.com/eaglecrew/rules-service/internal/infrastructure/db/redis"
	"github.com/eaglecrew/rules-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	ruleRepo := mongodb.NewRuleRepository(db)
	if err := ruleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("rule index creation failed")
	}

	// --- Services ---
	notifier := redisdb.NewChangeNotifier(rdb)
	ruleService := service.NewRuleService(ruleRepo, notifier, log)
	capabilityService := service.NewCapabilityService(cfg.AdminTokenSecret)
	authService := service.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.AuthJWTSecret, 24*time.Hour)

	refresher := service.NewRefresher(ruleService, 0, log)
	refresher.Start(ctx)

	// Fan store change events into the refresher until shutdown.
	go func() {
		if err := notifier.Listen(ctx, refresher.Notify); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("change listener stopped")
		}
	}()

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Redis:        rdb,
		Rules:        ruleService,
		Capabilities: capabilityService,
		Auth:         authService,
		Snapshot:     refresher,
		Store:        ruleRepo,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("rules service started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
