package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-bridge/core"
	"github.com/uptrace/bun"
)

// Ledger keeps account balances in bridge_accounts. Transfers run against
// the guarded-section transaction when one is active, so a rejected
// submission rolls reward movement back together with the nonce.
type Ledger struct {
	db *bun.DB

	// MinBalance is the floor a source account must keep after a transfer.
	MinBalance uint64
}

func NewLedger(db *bun.DB) (*Ledger, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Deposit(ctx context.Context, account core.Account, amount uint64) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("sqlstore: ledger is not configured")
	}
	if account.IsZero() {
		return fmt.Errorf("sqlstore: deposit account is required")
	}
	if amount == 0 {
		return nil
	}
	idb := conn(ctx, l.db)
	record, err := findAccount(ctx, idb, account)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if record == nil {
		record = &accountRecord{
			Account:   string(account),
			Balance:   int64(amount),
			UpdatedAt: now,
		}
		_, err = idb.NewInsert().Model(record).Exec(ctx)
		return err
	}
	_, err = idb.NewUpdate().
		Model(record).
		Set("balance = balance + ?", int64(amount)).
		Set("updated_at = ?", now).
		Where("account = ?", record.Account).
		Exec(ctx)
	return err
}

func (l *Ledger) Balance(ctx context.Context, account core.Account) (uint64, error) {
	if l == nil || l.db == nil {
		return 0, fmt.Errorf("sqlstore: ledger is not configured")
	}
	record, err := findAccount(ctx, conn(ctx, l.db), account)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}
	return uint64(record.Balance), nil
}

func (l *Ledger) Transfer(ctx context.Context, from core.Account, to core.Account, amount uint64) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("sqlstore: ledger is not configured")
	}
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("sqlstore: transfer requires both accounts")
	}
	if amount == 0 {
		return nil
	}
	if _, ok := txFromContext(ctx); ok {
		return l.transfer(ctx, conn(ctx, l.db), from, to, amount)
	}
	return l.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return l.transfer(ctx, tx, from, to, amount)
	})
}

func (l *Ledger) transfer(ctx context.Context, idb bun.IDB, from core.Account, to core.Account, amount uint64) error {
	source, err := findAccount(ctx, idb, from)
	if err != nil {
		return err
	}
	balance := uint64(0)
	if source != nil {
		balance = uint64(source.Balance)
	}
	if balance < amount || balance-amount < l.MinBalance {
		return fmt.Errorf("sqlstore: account %s holds %d, cannot send %d keeping %d: %w",
			from, balance, amount, l.MinBalance, core.ErrInsufficientFunds)
	}

	now := time.Now().UTC()
	result, err := idb.NewUpdate().
		Model((*accountRecord)(nil)).
		Set("balance = balance - ?", int64(amount)).
		Set("updated_at = ?", now).
		Where("account = ?", string(from)).
		Where("balance = ?", int64(balance)).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sqlstore: account %s changed concurrently during transfer", from)
	}

	target, err := findAccount(ctx, idb, to)
	if err != nil {
		return err
	}
	if target == nil {
		record := &accountRecord{
			Account:   string(to),
			Balance:   int64(amount),
			UpdatedAt: now,
		}
		_, err = idb.NewInsert().Model(record).Exec(ctx)
		return err
	}
	_, err = idb.NewUpdate().
		Model(target).
		Set("balance = balance + ?", int64(amount)).
		Set("updated_at = ?", now).
		Where("account = ?", target.Account).
		Exec(ctx)
	return err
}

func findAccount(ctx context.Context, idb bun.IDB, account core.Account) (*accountRecord, error) {
	record := &accountRecord{}
	err := idb.NewSelect().
		Model(record).
		Where("?TableAlias.account = ?", strings.TrimSpace(string(account))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

var _ core.Ledger = (*Ledger)(nil)
