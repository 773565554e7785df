package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
)

// validConfig mirrors the shipped defaults.
func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Log:      config.LogConfig{Level: "info", Format: "json"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: "data/todos.sqlite", MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute},
		Redis:    config.RedisConfig{IdempotencyTTL: 24 * time.Hour},
		RateLimit: config.RateLimitConfig{
			Burst: 20,
		},
		Telemetry: config.TelemetryConfig{Exporter: "stdout"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr string
	}{
		{name: "valid", modify: func(*config.Config) {}},
		{name: "port zero", modify: func(c *config.Config) { c.Server.Port = 0 }, wantErr: "server.port must be between 1 and 65535, got 0"},
		{name: "port too high", modify: func(c *config.Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "no request timeout", modify: func(c *config.Config) { c.Server.RequestTimeout = 0 }, wantErr: "server.request_timeout must be positive"},
		{name: "log level", modify: func(c *config.Config) { c.Log.Level = "verbose" }, wantErr: `log.level must be one of: debug, info, warn, error; got "verbose"`},
		{name: "log format", modify: func(c *config.Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "mysql driver", modify: func(c *config.Config) { c.Database.Driver = "mysql" }},
		{name: "unknown driver", modify: func(c *config.Config) { c.Database.Driver = "postgres" }, wantErr: "database.driver"},
		{name: "empty dsn", modify: func(c *config.Config) { c.Database.DSN = "" }, wantErr: "database.dsn must not be empty"},
		{name: "negative pool", modify: func(c *config.Config) { c.Database.MaxOpenConns = -1 }, wantErr: "database.max_open_conns"},
		{name: "negative lifetime", modify: func(c *config.Config) { c.Database.ConnMaxLifetime = -time.Second }, wantErr: "database.conn_max_lifetime"},
		{
			name:    "redis without ttl",
			modify:  func(c *config.Config) { c.Redis.Addr = "localhost:6379"; c.Redis.IdempotencyTTL = 0 },
			wantErr: "redis.idempotency_ttl",
		},
		{name: "ttl ignored without redis", modify: func(c *config.Config) { c.Redis.IdempotencyTTL = 0 }},
		{
			name:    "rate limit without burst",
			modify:  func(c *config.Config) { c.RateLimit.RequestsPerSecond = 5; c.RateLimit.Burst = 0 },
			wantErr: "rate_limit.burst",
		},
		{name: "negative rate", modify: func(c *config.Config) { c.RateLimit.RequestsPerSecond = -1 }, wantErr: "rate_limit.requests_per_second"},
		{
			name:    "otlp without endpoint",
			modify:  func(c *config.Config) { c.Telemetry.Enabled = true; c.Telemetry.Exporter = "otlp" },
			wantErr: "telemetry.endpoint",
		},
		{
			name:    "unknown exporter",
			modify:  func(c *config.Config) { c.Telemetry.Enabled = true; c.Telemetry.Exporter = "zipkin" },
			wantErr: "telemetry.exporter",
		},
		{name: "exporter ignored when disabled", modify: func(c *config.Config) { c.Telemetry.Exporter = "zipkin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"
	cfg.Database.DSN = ""

	err := cfg.Validate()
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "127.0.0.1:8080", config.ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
	assert.Equal(t, ":9090", config.ServerConfig{Port: 9090}.Addr())
}
