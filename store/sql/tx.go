package sqlstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type txContextKey struct{}

func withTx(ctx context.Context, tx bun.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func txFromContext(ctx context.Context) (bun.Tx, bool) {
	if ctx == nil {
		return bun.Tx{}, false
	}
	tx, ok := ctx.Value(txContextKey{}).(bun.Tx)
	return tx, ok
}

// conn resolves the connection stores should use: the transaction carried by
// ctx when a guarded section is active, the raw db otherwise.
func conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

// TxRunner binds guarded sections to one bun transaction. Stores built from
// the same db observe the transaction through the context conn resolution, so
// a failed section leaves no partial writes behind.
type TxRunner struct {
	db *bun.DB
}

func NewTxRunner(db *bun.DB) (*TxRunner, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &TxRunner{db: db}, nil
}

func (r *TxRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("sqlstore: tx runner is not configured")
	}
	if fn == nil {
		return fmt.Errorf("sqlstore: tx runner requires a function")
	}
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(withTx(ctx, tx))
	})
}
