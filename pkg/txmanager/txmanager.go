// Package txmanager runs functions inside transactions opened on a metrics-wrapped DB.
package txmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
)

// Beginner opens transactions. Satisfied by *dbmetrics.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager stores the open transaction in the context passed to fn,
// so repositories pick it up through dbmetrics.GetExecutor.
type TransactionManager struct {
	db Beginner
}

// NewTransactionManager creates a manager over db.
func NewTransactionManager(db Beginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do runs fn with the default isolation level.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable runs fn with SERIALIZABLE isolation.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly runs fn in a read-only transaction.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	return Run(ctx, func(ctx context.Context) (dbmetrics.TxExecutor, error) {
		return m.db.BeginTx(ctx, opts)
	}, fn)
}

// Run opens a transaction with begin unless ctx already carries one, then
// commits when fn succeeds and rolls back otherwise.
func Run(
	ctx context.Context,
	begin func(ctx context.Context) (dbmetrics.TxExecutor, error),
	fn func(ctx context.Context) error,
) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := begin(ctx)
	if err != nil {
		return fmt.Errorf("txmanager: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit: %w", err)
	}
	return nil
}
