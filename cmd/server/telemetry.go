package main

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
)

// initTelemetry returns zero Providers when telemetry is disabled so callers
// never branch on it.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Providers, error) {
	if !cfg.Telemetry.Enabled {
		return &telemetry.Providers{}, nil
	}
	return telemetry.Setup(ctx, telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
}

// flushTelemetry runs last so spans and metrics from shutdown itself are
// exported.
func flushTelemetry(p *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()

	if err := p.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}
