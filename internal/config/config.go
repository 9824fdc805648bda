// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

// Store backends
const (
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Stores lists the supported ledger backends
var Stores = []string{StoreRedis, StoreSQLite, StorePostgres}

// Config is the process configuration shared by every command
type Config struct {
	Port        int    `env:"RPG_TRACKER_PORT" envDefault:"50051"`
	Store       string `env:"RPG_TRACKER_STORE" envDefault:"sqlite"`
	RedisAddr   string `env:"RPG_TRACKER_REDIS_ADDR" envDefault:"localhost:6379"`
	SQLitePath  string `env:"RPG_TRACKER_SQLITE_PATH" envDefault:"rpg-tracker.db"`
	PostgresDSN string `env:"RPG_TRACKER_POSTGRES_DSN"`

	// RulesPath is an optional YAML overlay on the embedded rules
	RulesPath string `env:"RPG_TRACKER_RULES_PATH"`
	// SpellAPIURL enables remote lookup of spells the rules do not carry
	SpellAPIURL   string        `env:"RPG_TRACKER_SPELL_API_URL"`
	SpellCacheTTL time.Duration `env:"RPG_TRACKER_SPELL_CACHE_TTL" envDefault:"24h"`

	LogLevel string `env:"RPG_TRACKER_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the store selection and its settings
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("RPG_TRACKER_PORT", c.Port, 1, 65535, vb)
	errors.ValidateEnum("RPG_TRACKER_STORE", c.Store, Stores, vb)
	switch c.Store {
	case StoreRedis:
		if c.RedisAddr == "" {
			vb.RequiredField("RPG_TRACKER_REDIS_ADDR")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			vb.RequiredField("RPG_TRACKER_SQLITE_PATH")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			vb.RequiredField("RPG_TRACKER_POSTGRES_DSN")
		}
	}
	if c.SpellCacheTTL < 0 {
		vb.Field("RPG_TRACKER_SPELL_CACHE_TTL", "must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		vb.Field("RPG_TRACKER_LOG_LEVEL", err.Error())
	}
	return vb.Build()
}

// SlogLevel returns the configured log level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel accepts debug, info, warn and error
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.InvalidArgumentf("unknown log level %q", s)
	}
	return level, nil
}
