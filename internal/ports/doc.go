// Package ports holds the interfaces the layers talk through. TodoService is
// what the HTTP handlers call. TodoRepository, TransactionService and the
// health interfaces are what the application layer needs from storage and
// infrastructure.
package ports
