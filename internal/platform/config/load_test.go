package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
)

// shippedConfigs is the repository's configs directory.
const shippedConfigs = "../../../configs"

func TestLoad_ShippedProfiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		profile     string
		logLevel    string
		logFormat   string
		driver      string
		autoMigrate bool
		redis       bool
		rateLimit   bool
		exporter    string
	}{
		{profile: "local", logLevel: "debug", logFormat: "text", driver: "sqlite", autoMigrate: true},
		{profile: "dev", logLevel: "debug", logFormat: "json", driver: "sqlite", autoMigrate: true, redis: true, exporter: "stdout"},
		{profile: "qa", logLevel: "info", logFormat: "json", driver: "mysql", redis: true, rateLimit: true, exporter: "otlp"},
		{profile: "prod", logLevel: "info", logFormat: "json", driver: "mysql", redis: true, rateLimit: true, exporter: "otlp"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Load(tt.profile, config.WithConfigDir(shippedConfigs))
			if err != nil {
				t.Fatalf("Load(%q) error: %v", tt.profile, err)
			}

			if cfg.Log.Level != tt.logLevel || cfg.Log.Format != tt.logFormat {
				t.Errorf("Log = %s/%s, want %s/%s", cfg.Log.Level, cfg.Log.Format, tt.logLevel, tt.logFormat)
			}
			if cfg.Database.Driver != tt.driver {
				t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, tt.driver)
			}
			if cfg.Database.AutoMigrate != tt.autoMigrate {
				t.Errorf("Database.AutoMigrate = %v, want %v", cfg.Database.AutoMigrate, tt.autoMigrate)
			}
			if cfg.Redis.Enabled() != tt.redis {
				t.Errorf("Redis.Enabled() = %v, want %v", cfg.Redis.Enabled(), tt.redis)
			}
			if cfg.RateLimit.Enabled() != tt.rateLimit {
				t.Errorf("RateLimit.Enabled() = %v, want %v", cfg.RateLimit.Enabled(), tt.rateLimit)
			}
			if cfg.Telemetry.Enabled != (tt.exporter != "") {
				t.Errorf("Telemetry.Enabled = %v, want %v", cfg.Telemetry.Enabled, tt.exporter != "")
			}
			if tt.exporter != "" && cfg.Telemetry.Exporter != tt.exporter {
				t.Errorf("Telemetry.Exporter = %q, want %q", cfg.Telemetry.Exporter, tt.exporter)
			}
		})
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("local", config.WithConfigDir(shippedConfigs))
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("Database.MaxOpenConns = %d, want 10 (from base)", cfg.Database.MaxOpenConns)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("Redis.IdempotencyTTL = %v, want 24h (from base)", cfg.Redis.IdempotencyTTL)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "server:\n  port: 9000\n")
	writeFile(t, filepath.Join(dir, "bare.yaml"), "log:\n  level: warn\n")

	cfg, err := config.Load("bare", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000 (from base)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\" (from profile)", cfg.Log.Level)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 30s (default)", cfg.Server.RequestTimeout)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want \"sqlite\" (default)", cfg.Database.Driver)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local", config.WithConfigDir(shippedConfigs))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Setenv("APP_SERVER_READ_TIMEOUT", "15s")

	cfg, err := config.Load("local", config.WithConfigDir(shippedConfigs))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Server.ReadTimeout != want {
		t.Errorf("Server.ReadTimeout = %v, want %v (env override)", cfg.Server.ReadTimeout, want)
	}
}

func TestLoad_EnvOverrideUnderscoredSection(t *testing.T) {
	t.Setenv("APP_RATE_LIMIT_REQUESTS_PER_SECOND", "12.5")
	t.Setenv("APP_DATABASE_MAX_OPEN_CONNS", "3")
	t.Setenv("APP_REDIS_IDEMPOTENCY_TTL", "1h")

	cfg, err := config.Load("local", config.WithConfigDir(shippedConfigs))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.RateLimit.RequestsPerSecond != 12.5 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 12.5 (env override)", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Database.MaxOpenConns != 3 {
		t.Errorf("Database.MaxOpenConns = %d, want 3 (env override)", cfg.Database.MaxOpenConns)
	}
	if cfg.Redis.IdempotencyTTL != time.Hour {
		t.Errorf("Redis.IdempotencyTTL = %v, want 1h (env override)", cfg.Redis.IdempotencyTTL)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("nonexistent", config.WithConfigDir(shippedConfigs))
	if err == nil || !strings.Contains(err.Error(), "loading profile config") {
		t.Fatalf("Load(\"nonexistent\") = %v, want a profile config error", err)
	}
}

func TestLoad_RejectsUnsafeProfile(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", "a/b", `a\b`} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
