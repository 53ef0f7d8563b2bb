// Package config loads the CLI client settings from KANCL_* variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const Prefix = "KANCL_"

type Config struct {
	ServerURL      string        `env:"SERVER_URL,      default=http://localhost:8080"`
	StateFile      string        `env:"STATE_FILE"`
	PollInterval   time.Duration `env:"POLL_INTERVAL,   default=30s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	LogLevel       string        `env:"LOG_LEVEL,       default=warn"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads prefixed settings through l. An empty StateFile resolves to
// kancl/state.json under the user config directory.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	}); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}

	if cfg.StateFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("client config: state dir: %w", err)
		}
		cfg.StateFile = filepath.Join(dir, "kancl", "state.json")
	}
	return &cfg, nil
}
