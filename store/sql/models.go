package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type nonceRecord struct {
	bun.BaseModel `bun:"table:bridge_nonces,alias:bn"`

	Dest      int64     `bun:"dest,pk"`
	Nonce     int64     `bun:"nonce,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type allowlistChannelRecord struct {
	bun.BaseModel `bun:"table:bridge_allowlist,alias:ba"`

	Channel   string    `bun:"channel,pk"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type accountRecord struct {
	bun.BaseModel `bun:"table:bridge_accounts,alias:bac"`

	Account   string    `bun:"account,pk"`
	Balance   int64     `bun:"balance,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type deliveryEventRecord struct {
	bun.BaseModel `bun:"table:bridge_delivery_events,alias:bde"`

	ID        string    `bun:"id,pk"`
	Channel   string    `bun:"channel,notnull"`
	Dest      int64     `bun:"dest,notnull"`
	Nonce     int64     `bun:"nonce,notnull"`
	Outcome   string    `bun:"outcome,notnull"`
	Reason    string    `bun:"reason"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
