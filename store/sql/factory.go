package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-bridge/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	nonceStore     *NonceStore
	allowlistStore *AllowlistStore
	ledger         *Ledger
	eventStore     *DeliveryEventStore
	txRunner       *TxRunner
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.nonceStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) NonceStore() core.NonceStore {
	if f == nil {
		return nil
	}
	return f.nonceStore
}

func (f *RepositoryFactory) AllowlistStore() core.AllowlistStore {
	if f == nil {
		return nil
	}
	return f.allowlistStore
}

func (f *RepositoryFactory) Ledger() core.Ledger {
	if f == nil {
		return nil
	}
	return f.ledger
}

func (f *RepositoryFactory) EventSink() core.EventSink {
	if f == nil {
		return nil
	}
	return f.eventStore
}

func (f *RepositoryFactory) AtomicRunner() core.AtomicRunner {
	if f == nil {
		return nil
	}
	return f.txRunner
}

func (f *RepositoryFactory) DeliveryEventStore() *DeliveryEventStore {
	if f == nil {
		return nil
	}
	return f.eventStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	nonceStore, err := NewNonceStore(f.db)
	if err != nil {
		return err
	}
	f.nonceStore = nonceStore

	allowlistStore, err := NewAllowlistStore(f.db)
	if err != nil {
		return err
	}
	f.allowlistStore = allowlistStore

	ledger, err := NewLedger(f.db)
	if err != nil {
		return err
	}
	f.ledger = ledger

	eventStore, err := NewDeliveryEventStore(f.db)
	if err != nil {
		return err
	}
	f.eventStore = eventStore

	txRunner, err := NewTxRunner(f.db)
	if err != nil {
		return err
	}
	f.txRunner = txRunner

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
