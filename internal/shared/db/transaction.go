// Package db provides transaction plumbing shared by the repositories.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager wraps gorm transactions so use cases can span several
// repository calls atomically. The settlement path relies on this to keep the
// row lock, record insert, and state save in one unit.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction runs fn inside a transaction. The transaction handle
// travels in the context; repositories pick it up via GetTxFromContext. An
// error from fn rolls everything back.
func (m *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTx returns the in-flight transaction, or the base handle outside one.
func (m *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	return GetTxFromContext(ctx, m.db)
}

// GetTxFromContext lets a repository join an ambient transaction. Outside a
// transaction it falls back to defaultDB scoped to ctx.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
