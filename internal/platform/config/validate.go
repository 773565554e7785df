package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels        = []string{"debug", "info", "warn", "error"}
	logFormats       = []string{"json", "text"}
	databaseDrivers  = []string{"sqlite", "mysql"}
	telemetryExports = []string{"stdout", "otlp"}
)

// Validate reports every invalid setting at once, joined.
func (c *Config) Validate() error {
	var p problems

	p.check(c.Server.Port >= 1 && c.Server.Port <= 65535,
		"server.port must be between 1 and 65535, got %d", c.Server.Port)
	p.check(c.Server.ReadTimeout > 0, "server.read_timeout must be positive")
	p.check(c.Server.WriteTimeout > 0, "server.write_timeout must be positive")
	p.check(c.Server.RequestTimeout > 0, "server.request_timeout must be positive")

	p.oneOf("log.level", c.Log.Level, logLevels)
	p.oneOf("log.format", c.Log.Format, logFormats)

	p.oneOf("database.driver", c.Database.Driver, databaseDrivers)
	p.check(c.Database.DSN != "", "database.dsn must not be empty")
	p.check(c.Database.MaxOpenConns >= 0, "database.max_open_conns must be >= 0, got %d", c.Database.MaxOpenConns)
	p.check(c.Database.MaxIdleConns >= 0, "database.max_idle_conns must be >= 0, got %d", c.Database.MaxIdleConns)
	p.check(c.Database.ConnMaxLifetime >= 0, "database.conn_max_lifetime must not be negative")

	if c.Redis.Enabled() {
		p.check(c.Redis.IdempotencyTTL > 0, "redis.idempotency_ttl must be positive when redis.addr is set")
	}

	p.check(c.RateLimit.RequestsPerSecond >= 0,
		"rate_limit.requests_per_second must be >= 0, got %v", c.RateLimit.RequestsPerSecond)
	if c.RateLimit.Enabled() {
		p.check(c.RateLimit.Burst >= 1,
			"rate_limit.burst must be >= 1 when rate limiting is enabled, got %d", c.RateLimit.Burst)
	}

	if c.Telemetry.Enabled {
		p.oneOf("telemetry.exporter", c.Telemetry.Exporter, telemetryExports)
		if c.Telemetry.Exporter == "otlp" {
			p.check(c.Telemetry.Endpoint != "", "telemetry.endpoint must not be empty when exporter is otlp")
		}
	}

	return p.err()
}

// problems accumulates validation failures in the order they are found.
type problems []error

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) oneOf(key, value string, allowed []string) {
	p.check(slices.Contains(allowed, value),
		"%s must be one of: %s; got %q", key, strings.Join(allowed, ", "), value)
}

func (p problems) err() error {
	return errors.Join(p...)
}
