package config

const (
	defaultServerPort = 8080

	defaultDBMaxOpenConns = 10
	defaultDBMaxIdleConns = 5

	defaultRateLimitBurst = 20
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "30s",

		"log.level":  "info",
		"log.format": "json",

		"database.driver":            "sqlite",
		"database.dsn":               "data/todos.sqlite",
		"database.max_open_conns":    defaultDBMaxOpenConns,
		"database.max_idle_conns":    defaultDBMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.slow_threshold":    "200ms",
		"database.auto_migrate":      false,

		"redis.addr":            "",
		"redis.password":        "",
		"redis.db":              0,
		"redis.idempotency_ttl": "24h",

		"rate_limit.requests_per_second": 0,
		"rate_limit.burst":               defaultRateLimitBurst,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "go-todo-service",
	}
}
