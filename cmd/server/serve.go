package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
	"gorm.io/gorm"

	adapthttp "github.com/jsamuelsen11/go-todo-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/idempotency"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence"
	"github.com/jsamuelsen11/go-todo-service/internal/app"
	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/database"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/health"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func runServe(ctx context.Context, flags *globalFlags) error {
	// Bootstrap: config, logger, telemetry.
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(tel, logger)

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, tel.Metrics)

	var stores closers
	defer stores.closeAll(logger)

	registerDependencies(ctx, injector, cfg, logger, &stores)

	if cfg.Database.AutoMigrate {
		db, err := do.Invoke[*gorm.DB](injector)
		if err != nil {
			return fmt.Errorf("resolving database: %w", err)
		}
		if err := persistence.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("database schema migrated")
	}

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	logger.Info("shutdown complete")
	return nil
}

func registerDependencies(
	ctx context.Context,
	injector *do.RootScope,
	cfg *config.Config,
	logger *slog.Logger,
	stores *closers,
) {
	do.Provide(injector, func(_ do.Injector) (*gorm.DB, error) {
		db, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		stores.add("database", func() error { return database.Close(db) })
		return db, nil
	})

	do.Provide(injector, func(i do.Injector) (*appctx.Provider[*gorm.DB], error) {
		db := do.MustInvoke[*gorm.DB](i)
		return appctx.NewProvider(db), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoRepository, error) {
		provider := do.MustInvoke[*appctx.Provider[*gorm.DB]](i)
		return persistence.NewTodoRepository(provider), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TransactionService, error) {
		provider := do.MustInvoke[*appctx.Provider[*gorm.DB]](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return persistence.NewTransactionService(provider, persistence.WithMetrics(metrics)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		repo := do.MustInvoke[ports.TodoRepository](i)
		tx := do.MustInvoke[ports.TransactionService](i)
		return app.NewTodoService(repo, tx, logger), nil
	})

	if cfg.Redis.Enabled() {
		do.Provide(injector, func(_ do.Injector) (*redis.Client, error) {
			client := idempotency.NewClient(cfg.Redis)
			stores.add("redis", client.Close)
			return client, nil
		})

		do.Provide(injector, func(i do.Injector) (*idempotency.RedisStore, error) {
			client := do.MustInvoke[*redis.Client](i)
			return idempotency.NewRedisStore(client), nil
		})
	}

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New()
		registry.Register(database.NewHealthChecker(do.MustInvoke[*gorm.DB](i)))
		if cfg.Redis.Enabled() {
			registry.Register(do.MustInvoke[*idempotency.RedisStore](i))
		}
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		todoH := do.MustInvoke[*handlers.TodoHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		mw := adapthttp.Middlewares{
			Global: []func(nethttp.Handler) nethttp.Handler{
				middleware.Recovery(logger),
				middleware.RequestID(),
				middleware.CorrelationID(),
				middleware.OpenTelemetry(metrics),
				middleware.Logging(logger),
			},
		}
		if cfg.RateLimit.Enabled() {
			mw.API = append(mw.API, middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		}
		mw.API = append(mw.API, middleware.Timeout(cfg.Server.RequestTimeout))
		if cfg.Redis.Enabled() {
			store := do.MustInvoke[*idempotency.RedisStore](i)
			mw.API = append(mw.API, middleware.Idempotency(store, cfg.Redis.IdempotencyTTL))
		}

		return adapthttp.NewRouter(todoH, healthH, mw), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

type namedCloser struct {
	name  string
	close func() error
}

// closers releases connections opened while wiring, in reverse order of
// opening. Services that were never resolved have nothing to close.
type closers []namedCloser

func (c *closers) add(name string, fn func() error) {
	*c = append(*c, namedCloser{name: name, close: fn})
}

func (c *closers) closeAll(logger *slog.Logger) {
	for i := len(*c) - 1; i >= 0; i-- {
		nc := (*c)[i]
		if err := nc.close(); err != nil {
			logger.Error("close error", slog.String("store", nc.name), slog.Any("error", err))
		}
	}
}
