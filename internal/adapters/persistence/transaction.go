package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TransactionService = (*TransactionService)(nil)
	_ appctx.Runner            = (*TransactionService)(nil)
)

const tracerName = "github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence"

// TxOption configures a TransactionService.
type TxOption func(*TransactionService)

// WithMetrics records transaction counts and durations on m.
func WithMetrics(m *telemetry.Metrics) TxOption {
	return func(s *TransactionService) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer used for transaction spans. Defaults to the
// global tracer provider.
func WithTracer(t trace.Tracer) TxOption {
	return func(s *TransactionService) {
		s.tracer = t
	}
}

// TransactionService runs units of work inside gorm transactions and binds
// the transaction handle through the shared provider.
type TransactionService struct {
	provider *appctx.Provider[*gorm.DB]
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
}

// NewTransactionService creates a TransactionService that begins
// transactions on the provider's ambient handle.
func NewTransactionService(provider *appctx.Provider[*gorm.DB], opts ...TxOption) *TransactionService {
	s := &TransactionService{
		provider: provider,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes fn inside a transaction.
//
// The transaction is committed when fn returns nil. When fn returns an error
// the transaction is rolled back and that same error is returned, unwrapped.
// When fn panics the transaction is rolled back and the panic continues.
// A failed commit is returned wrapped.
//
// If ctx already carries a transaction, fn runs inside it and the outermost
// Run owns commit and rollback.
func (s *TransactionService) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.provider.Bound(ctx); ok {
		return fn(ctx)
	}

	db := s.provider.Ambient()
	ctx, span := s.tracer.Start(ctx, "db.transaction",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.AttrDBSystem.String(db.Dialector.Name())),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		span.SetStatus(codes.Error, "begin failed")
		span.RecordError(tx.Error)
		return fmt.Errorf("beginning transaction: %w", tx.Error)
	}
	logger.DebugContext(ctx, "transaction started")

	finished := false
	defer func() {
		if finished {
			return
		}
		// fn panicked or called runtime.Goexit.
		r := recover()
		s.rollback(ctx, tx, logger)
		s.record(ctx, start, telemetry.ResultRolledBack)
		span.SetStatus(codes.Error, "panic in transaction")
		if r != nil {
			panic(r)
		}
	}()

	err := s.provider.RunWith(ctx, tx, fn)
	finished = true

	if err != nil {
		s.rollback(ctx, tx, logger)
		s.record(ctx, start, telemetry.ResultRolledBack)
		span.SetStatus(codes.Error, "rolled back")
		span.RecordError(err)
		logger.DebugContext(ctx, "transaction rolled back", slog.Any("error", err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.record(ctx, start, telemetry.ResultCommitFailed)
		span.SetStatus(codes.Error, "commit failed")
		span.RecordError(err)
		logger.ErrorContext(ctx, "transaction commit failed",
			slog.String("operation", "Commit"),
			slog.Any("error", err),
		)
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.record(ctx, start, telemetry.ResultCommitted)
	logger.DebugContext(ctx, "transaction committed", slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *TransactionService) rollback(ctx context.Context, tx *gorm.DB, logger *slog.Logger) {
	if err := tx.Rollback().Error; err != nil {
		logger.ErrorContext(ctx, "transaction rollback failed",
			slog.String("operation", "Rollback"),
			slog.Any("error", err),
		)
	}
}

func (s *TransactionService) record(ctx context.Context, start time.Time, result string) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(telemetry.AttrResult.String(result))
	s.metrics.DBTransactionTotal.Add(ctx, 1, attrs)
	s.metrics.DBTransactionDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
