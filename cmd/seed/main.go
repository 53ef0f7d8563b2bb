// Command seed provisions indexes, the test user and the default translations.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jandrly/kancl/internal/core/ports"
	"github.com/jandrly/kancl/internal/core/service"
	"github.com/jandrly/kancl/internal/infrastructure/config"
	"github.com/jandrly/kancl/internal/infrastructure/db/mongo"
	"github.com/jandrly/kancl/internal/infrastructure/db/redis"
	"github.com/jandrly/kancl/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	email := flag.String("email", cfg.Seed.Email, "test user email")
	password := flag.String("password", cfg.Seed.Password, "test user password")
	skipUser := flag.Bool("skip-user", false, "do not create or reset the test user")
	skipTranslations := flag.Bool("skip-translations", false, "do not reseed en/cs translations")
	flag.Parse()

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "kancl-seed"})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() { _ = mongo.Disconnect(client, 5*time.Second) }()

	// Redis is optional here: without it there is simply no cache to invalidate.
	var cache ports.TranslationCache
	if rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, skipping cache invalidation")
	} else {
		defer rdb.Close()
		cache = redis.NewTranslationCache(rdb, cfg.Translation.CacheTTL)
	}

	seeder := service.NewSeedService(
		mongo.NewUserRepository(db),
		mongo.NewTranslationRepository(db),
		cache,
		mongo.NewIndexes(db),
		log,
	)

	if err := seeder.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	if !*skipUser {
		msg, err := seeder.SeedTestUser(ctx, *email, *password)
		if err != nil {
			log.Fatal().Err(err).Msg("seed test user failed")
		}
		fmt.Println(msg)
	}

	if !*skipTranslations {
		msg, err := seeder.SeedTranslations(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed translations failed")
		}
		fmt.Println(msg)
	}
}
