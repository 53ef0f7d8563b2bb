// @title           kancl API
// @version         1.0
// @description     Session-based authentication, tasks and translations for kancl.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/jandrly/kancl/internal/api"
	"github.com/jandrly/kancl/internal/core/service"
	"github.com/jandrly/kancl/internal/infrastructure/config"
	"github.com/jandrly/kancl/internal/infrastructure/db/mongo"
	"github.com/jandrly/kancl/internal/infrastructure/db/redis"
	"github.com/jandrly/kancl/internal/infrastructure/http/handlers"
	"github.com/jandrly/kancl/internal/infrastructure/jobs"
	"github.com/jandrly/kancl/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "kancl-api",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	if err := mongo.NewIndexes(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}

	authService := service.NewAuthService(
		mongo.NewUserRepository(db),
		mongo.NewSessionRepository(db),
		log.With().Str("component", "auth").Logger(),
	)
	taskService := service.NewTaskService(mongo.NewTaskRepository(db))
	translationService := service.NewTranslationService(
		mongo.NewTranslationRepository(db),
		redis.NewTranslationCache(rdb, cfg.Translation.CacheTTL),
		log.With().Str("component", "translations").Logger(),
	)

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Tasks:        taskService,
		Translations: translationService,
		Checks:       []handlers.Check{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
		Log:          log,
	})

	scheduler := jobs.NewScheduler(authService, cfg.Session.SweepSchedule, log.With().Str("component", "jobs").Logger())
	if err := scheduler.Start(); err != nil {
		log.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(log, e, scheduler, mongoClient, rdb)
}

func waitForShutdown(log zerolog.Logger, e *echo.Echo, scheduler *jobs.Scheduler, mongoClient *gomongo.Client, rdb *goredis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	if err := mongo.Disconnect(mongoClient, shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}

	log.Info().Msg("server exited cleanly")
}
