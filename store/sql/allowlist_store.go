package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-bridge/core"
	"github.com/uptrace/bun"
)

type AllowlistStore struct {
	db *bun.DB
}

func NewAllowlistStore(db *bun.DB) (*AllowlistStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &AllowlistStore{db: db}, nil
}

func (s *AllowlistStore) Load(ctx context.Context) (core.AllowList, error) {
	if s == nil || s.db == nil {
		return core.AllowList{}, fmt.Errorf("sqlstore: allowlist store is not configured")
	}
	records := []allowlistChannelRecord{}
	if err := conn(ctx, s.db).NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.channel ASC").
		Scan(ctx); err != nil {
		return core.AllowList{}, err
	}
	channels := make([]core.ChannelAddress, 0, len(records))
	for _, record := range records {
		channel, err := core.ParseChannelAddress(record.Channel)
		if err != nil {
			return core.AllowList{}, fmt.Errorf("sqlstore: persisted allowlist entry %q: %w", record.Channel, err)
		}
		channels = append(channels, channel)
	}
	return core.NewAllowList(channels)
}

func (s *AllowlistStore) Replace(ctx context.Context, list core.AllowList) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: allowlist store is not configured")
	}
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*allowlistChannelRecord)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return err
		}
		for _, channel := range list.Channels() {
			record := &allowlistChannelRecord{
				Channel:   channel.String(),
				CreatedAt: now,
			}
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ core.AllowlistStore = (*AllowlistStore)(nil)
