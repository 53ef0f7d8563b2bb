package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session     SessionConfig
	Translation TranslationConfig
	Seed        SeedConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type SessionConfig struct {
	// SweepSchedule is a cron expression; "off" disables the sweep.
	SweepSchedule string `env:"SESSION_SWEEP_SCHEDULE, default=@hourly"`
}

type TranslationConfig struct {
	CacheTTL time.Duration `env:"TRANSLATION_CACHE_TTL, default=10m"`
}

type SeedConfig struct {
	Email    string `env:"SEED_USER_EMAIL,    default=jd@jandrly.cz"`
	Password string `env:"SEED_USER_PASSWORD, default=admin"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=kancl"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
