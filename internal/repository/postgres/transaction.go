package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clearview/internal/domain"
	"clearview/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// beginner starts transactions; *pgxpool.Pool satisfies it
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionManager runs functions inside a pgx transaction
type TransactionManager struct {
	pool   beginner
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionManager{pool: pool, logger: logger}
}

// maxTxAttempts bounds reruns of a transaction aborted by a
// serialization failure or deadlock
const maxTxAttempts = 3

// ExecTx executes fn within a transaction. The transaction is committed when
// fn returns nil and rolled back otherwise. Nested calls join the outer transaction.
//
// An outer transaction aborted by Postgres as a serialization failure is rerun
// from the start; when the attempts run out the caller gets a ConflictError.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = tm.runTx(ctx, fn)
		if !IsPgSerializationError(err) || ctx.Err() != nil {
			return err
		}
		tm.logger.Debug("retrying serialization failure", "attempt", attempt, "error", err)
	}
	return &domain.ConflictError{
		Message: "the change collided with a concurrent edit, reload and retry",
	}
}

func (tm *TransactionManager) runTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Safe after commit: returns ErrTxClosed
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(setTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
