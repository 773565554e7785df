package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts gorm's logger.Interface to slog. Query traces are written
// through the request logger found in ctx when there is one, so SQL lines
// carry the same request_id and correlation_id as the rest of the request.
//
// Every statement is traced at debug level. Statements slower than the slow
// threshold are logged at warn and failed statements at error.
// gorm.ErrRecordNotFound is expected control flow and is never logged as an
// error.
type GormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// Compile-time interface check.
var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a GormLogger. A zero slowThreshold disables slow
// query warnings.
func NewGormLogger(logger *slog.Logger, slowThreshold time.Duration) *GormLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormLogger{
		logger:        logger,
		level:         gormlogger.Info,
		slowThreshold: slowThreshold,
	}
}

// LogMode returns a copy of the logger that emits at most the given level.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.from(ctx).InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.from(ctx).WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.from(ctx).ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace logs a single executed statement.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	logger := g.from(ctx)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		logger.ErrorContext(ctx, "query failed",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.WarnContext(ctx, "slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Duration("threshold", g.slowThreshold),
		)
	case g.level >= gormlogger.Info:
		if !logger.Enabled(ctx, slog.LevelDebug) {
			return
		}
		sql, rows := fc()
		logger.DebugContext(ctx, "query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func (g *GormLogger) from(ctx context.Context) *slog.Logger {
	return fromContextOr(ctx, g.logger)
}
