// Package database opens the relational store behind the todo repository.
//
// SQLite (pure Go, via glebarez/sqlite) is the default and is what tests run
// against. MySQL is supported for shared deployments.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// sqliteBusyTimeoutMS is how long a SQLite connection waits for a competing
// writer before failing with SQLITE_BUSY.
const sqliteBusyTimeoutMS = 5000

// Open connects to the configured database, applies pool settings and
// verifies the connection with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logger, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == DriverSQLite && isMemoryDSN(cfg.DSN) {
		// Every connection to ":memory:" is a separate database.
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	logger.InfoContext(ctx, "database opened",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", maxOpen),
	)
	return db, nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "sqlite3":
		if err := ensureSQLiteDirectory(cfg.DSN); err != nil {
			return nil, err
		}
		return gormsqlite.Open(sqliteDSN(cfg.DSN)), nil
	case DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN makes file databases open write transactions IMMEDIATE, adds a
// busy timeout and enables foreign keys. Parameters the DSN already sets are
// left alone.
//
// Deferred transactions that read before writing deadlock on lock upgrade,
// and SQLite reports that as SQLITE_BUSY without consulting the busy timeout.
func sqliteDSN(dsn string) string {
	if isMemoryDSN(dsn) {
		return dsn
	}

	var params []string
	if !strings.Contains(dsn, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if !strings.Contains(dsn, "_pragma=") {
		params = append(params,
			fmt.Sprintf("_pragma=busy_timeout(%d)", sqliteBusyTimeoutMS),
			"_pragma=foreign_keys(1)",
		)
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func isMemoryDSN(dsn string) bool {
	d := strings.TrimSpace(dsn)
	return d == ":memory:" || strings.Contains(d, "mode=memory")
}

func ensureSQLiteDirectory(dsn string) error {
	candidate := strings.TrimSpace(dsn)
	if candidate == "" {
		return errors.New("sqlite dsn must not be empty")
	}
	if isMemoryDSN(candidate) {
		return nil
	}

	candidate = strings.TrimPrefix(candidate, "file:")
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating sqlite directory %q: %w", dir, err)
	}
	return nil
}
