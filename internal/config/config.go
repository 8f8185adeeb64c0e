// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken     string        `env:"DISCORD_TOKEN"`
	StoragePath      string        `env:"STORAGE_PATH" envDefault:"botdata.json"`
	StorageBackups   int           `env:"STORAGE_BACKUPS" envDefault:"3"`
	CommandPrefix    string        `env:"COMMAND_PREFIX" envDefault:"!"`
	BootstrapUserIDs []string      `env:"BOOTSTRAP_USER_IDS"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`
	LogFile          string        `env:"LOG_FILE"`
	LogMaxSizeMB     int           `env:"LOG_MAX_SIZE_MB" envDefault:"20"`
	LogMaxBackups    int           `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MetricsAddr      string        `env:"METRICS_ADDR"`
	PurgeScanLimit   int           `env:"PURGE_SCAN_LIMIT" envDefault:"1000"`
	PurgeReplyTTL    time.Duration `env:"PURGE_REPLY_TTL" envDefault:"5s"`

	// EnvFileLoaded is set when a .env file was found.
	EnvFileLoaded bool
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.EnvFileLoaded = loaded
	return &cfg, nil
}

// Validate checks what the bot process needs to start.
func (c *Config) Validate() error {
	var errs []error
	if c.DiscordToken == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is not set"))
	}
	if c.CommandPrefix == "" {
		errs = append(errs, errors.New("COMMAND_PREFIX must not be empty"))
	}
	if c.PurgeScanLimit <= 0 {
		errs = append(errs, fmt.Errorf("PURGE_SCAN_LIMIT must be positive, got %d", c.PurgeScanLimit))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
