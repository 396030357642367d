// Package config defines the service configuration, loaded from a
// TOML file with ORDERENGINE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig `toml:"server"`
	Store    StoreConfig  `toml:"store"`
	Redis    RedisConfig  `toml:"redis"`
	LogLevel string       `toml:"log_level"`
	User     UserConfig   `toml:"user"`
}

type ServerConfig struct {
	Port          int `toml:"port"`
	RateLimitMSec int `toml:"rate_limit_msec"`
}

type StoreConfig struct {
	Backend     string `toml:"backend"` // "memory" or "postgres"
	PostgresDSN string `toml:"postgres_dsn"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTLMin   int    `toml:"ttl_minutes"`
}

type UserConfig struct {
	DefaultID string `toml:"default_id"`
	Seed      bool   `toml:"seed"`
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:          8080,
			RateLimitMSec: 100,
		},
		Store:    StoreConfig{Backend: "memory"},
		Redis:    RedisConfig{Addr: "localhost:6379", TTLMin: 5},
		LogLevel: "info",
		User:     UserConfig{DefaultID: "USER001", Seed: true},
	}
}

// Load reads the TOML file at path (missing file falls back to
// defaults), loads .env if present, and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Store.Backend, "ORDERENGINE_STORE_BACKEND")
	setStr(&cfg.Store.PostgresDSN, "ORDERENGINE_POSTGRES_DSN")
	setStr(&cfg.Redis.Addr, "ORDERENGINE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ORDERENGINE_REDIS_PASSWORD")
	setBool(&cfg.Redis.Enabled, "ORDERENGINE_REDIS_ENABLED")
	setInt(&cfg.Redis.DB, "ORDERENGINE_REDIS_DB")
	setInt(&cfg.Server.Port, "ORDERENGINE_PORT")
	setStr(&cfg.LogLevel, "ORDERENGINE_LOG_LEVEL")
	setStr(&cfg.User.DefaultID, "ORDERENGINE_DEFAULT_USER")
	setBool(&cfg.User.Seed, "ORDERENGINE_SEED")
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("config: postgres backend requires postgres_dsn")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if c.User.DefaultID == "" {
		return fmt.Errorf("config: default user id must not be empty")
	}
	return nil
}

// RateLimitInterval is the minimum gap between requests per user;
// zero disables rate limiting.
func (c *Config) RateLimitInterval() time.Duration {
	return time.Duration(c.Server.RateLimitMSec) * time.Millisecond
}

func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLMin) * time.Minute
}

func setStr(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, env string) {
	if v := os.Getenv(env); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
