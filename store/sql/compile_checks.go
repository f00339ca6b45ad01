package sqlstore

import "github.com/goliatone/go-bridge/core"

var (
	_ core.NonceStore             = (*NonceStore)(nil)
	_ core.AllowlistStore         = (*AllowlistStore)(nil)
	_ core.AllowlistStore         = (*CachedAllowlistStore)(nil)
	_ core.Ledger                 = (*Ledger)(nil)
	_ core.EventSink              = (*DeliveryEventStore)(nil)
	_ core.AtomicRunner           = (*TxRunner)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
