package ports

import "context"

// TransactionService runs a unit of work inside a database transaction.
//
// Run begins a transaction, calls fn with a context bound to it, and commits
// when fn returns nil. If fn returns an error or panics the transaction is
// rolled back; the error is returned exactly as fn produced it and the panic
// is re-raised. When ctx already carries a transaction, fn joins it and the
// outermost Run decides the outcome.
type TransactionService interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
