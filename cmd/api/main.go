// Command api is the entry point for the storehouse access API server.
//
// Startup order: logger, configuration, MongoDB, Redis, indexes, services,
// audit dispatcher, HTTP router. All wiring is explicit constructor injection;
// no business logic lives here.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storehouse/access-api/internal/api"
	"github.com/storehouse/access-api/internal/core/service"
	"github.com/storehouse/access-api/internal/infrastructure/config"
	mongodb "github.com/storehouse/access-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storehouse/access-api/internal/infrastructure/db/redis"
	"github.com/storehouse/access-api/internal/infrastructure/queue"
	"github.com/storehouse/access-api/pkg/logger"
)

const auditWorkers = 4

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "access-api"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "access-api",
		Pretty:  cfg.Env == "development",
	})

	// --- Datastores ---
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

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Services ---
	auditRepo := mongodb.NewAuditRepository(db)
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(auditWorkers, auditService, log)
	dispatcher.Start(ctx)

	throttle := redisdb.NewSigninThrottle(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(mongodb.NewAuthRepository(db), tokens, throttle, dispatcher, log)
	recordService := service.NewRecordService(mongodb.NewRecordRepository(db), log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		RecordService: recordService,
		AuditService:  auditService,
		Logger:        log,
		Mongo:         db,
		Redis:         rdb,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
