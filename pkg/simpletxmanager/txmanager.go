// Package simpletxmanager runs functions inside transactions on a plain *sql.DB.
package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarWashService/pkg/txmanager"
)

// TransactionManager is the metrics-free counterpart of txmanager.TransactionManager.
type TransactionManager struct {
	db *sql.DB
}

func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	return txmanager.Run(ctx, func(ctx context.Context) (dbmetrics.TxExecutor, error) {
		tx, err := m.db.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return dbmetrics.NewSqlTxWrapper(tx), nil
	}, fn)
}
