package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/database"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

func runMigrate(ctx context.Context, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close error", slog.Any("error", err))
		}
	}()

	if err := persistence.Migrate(ctx, db); err != nil {
		return err
	}

	logger.InfoContext(ctx, "migration complete", slog.String("driver", cfg.Database.Driver))
	return nil
}
