// Package persistence implements the repository and transaction ports on top
// of gorm.
//
// Repositories never receive a connection. They ask the shared
// appctx.Provider for the handle in effect for ctx, which is the transaction
// opened by TransactionService.Run when one is active and the pooled *gorm.DB
// otherwise.
package persistence
