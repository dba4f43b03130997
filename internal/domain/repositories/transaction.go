package repositories

import "context"

// TxFn is a function that runs within a transaction.
// Repositories called with the ctx it receives join that transaction.
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. A call made with a ctx that already carries a
	// transaction joins it instead of opening a new one.
	ExecTx(ctx context.Context, fn TxFn) error
}
