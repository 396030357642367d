package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.User.DefaultID != "USER001" || !cfg.User.Seed {
		t.Errorf("User = %+v, want USER001 with seeding on", cfg.User)
	}
	if cfg.RateLimitInterval() != 100*time.Millisecond {
		t.Errorf("RateLimitInterval() = %v, want 100ms", cfg.RateLimitInterval())
	}
	if cfg.RedisTTL() != 5*time.Minute {
		t.Errorf("RedisTTL() = %v, want 5m", cfg.RedisTTL())
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
log_level = "debug"

[server]
port = 9090
rate_limit_msec = 250

[store]
backend = "memory"

[user]
default_id = "TRADER42"
seed = false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.RateLimitInterval() != 250*time.Millisecond {
		t.Errorf("RateLimitInterval() = %v, want 250ms", cfg.RateLimitInterval())
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.User.DefaultID != "TRADER42" || cfg.User.Seed {
		t.Errorf("User = %+v, want TRADER42 without seeding", cfg.User)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORDERENGINE_PORT", "7070")
	t.Setenv("ORDERENGINE_DEFAULT_USER", "ENVUSER")
	t.Setenv("ORDERENGINE_SEED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.User.DefaultID != "ENVUSER" {
		t.Errorf("DefaultID = %q, want ENVUSER", cfg.User.DefaultID)
	}
	if cfg.User.Seed {
		t.Error("Seed = true, want env override false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"postgres needs dsn", func(c *Config) { c.Store.Backend = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.Store.Backend = "postgres"
			c.Store.PostgresDSN = "postgres://localhost/orders"
		}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty default user", func(c *Config) { c.User.DefaultID = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
