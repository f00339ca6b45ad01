package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goliatone/go-bridge/core"
	"github.com/uptrace/bun"
)

type NonceStore struct {
	db *bun.DB
}

func NewNonceStore(db *bun.DB) (*NonceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &NonceStore{db: db}, nil
}

func (s *NonceStore) Current(ctx context.Context, dest core.Destination) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: nonce store is not configured")
	}
	record := &nonceRecord{}
	err := conn(ctx, s.db).NewSelect().
		Model(record).
		Where("?TableAlias.dest = ?", int64(dest)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return uint64(record.Nonce), nil
}

func (s *NonceStore) Advance(ctx context.Context, dest core.Destination, nonce uint64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: nonce store is not configured")
	}
	idb := conn(ctx, s.db)

	record := &nonceRecord{}
	found := true
	err := idb.NewSelect().
		Model(record).
		Where("?TableAlias.dest = ?", int64(dest)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err != sql.ErrNoRows {
			return err
		}
		found = false
	}

	current := uint64(0)
	if found {
		current = uint64(record.Nonce)
	}
	if nonce != current+1 {
		return fmt.Errorf("sqlstore: dest %d expects nonce %d, got %d: %w",
			dest, current+1, nonce, core.ErrInvalidNonce)
	}

	now := time.Now().UTC()
	if !found {
		record = &nonceRecord{Dest: int64(dest), Nonce: int64(nonce), UpdatedAt: now}
		_, err = idb.NewInsert().Model(record).Exec(ctx)
		return err
	}

	result, err := idb.NewUpdate().
		Model(record).
		Set("nonce = ?", int64(nonce)).
		Set("updated_at = ?", now).
		Where("dest = ?", int64(dest)).
		Where("nonce = ?", int64(current)).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sqlstore: dest %d nonce advanced concurrently: %w", dest, core.ErrInvalidNonce)
	}
	return nil
}

var _ core.NonceStore = (*NonceStore)(nil)
