package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// Verifier proves that a raw relayer submission corresponds to a finalized
// log on the external chain. Implementations own the proof format; the
// orchestrator only sees the verified log record or a failure.
type Verifier interface {
	Verify(ctx context.Context, msg RawMessage) (LogRecord, error)
}

// Ledger moves reward funds between accounts. Transfer must keep the source
// account above its minimum balance and report insufficient funds with
// ErrInsufficientFunds.
type Ledger interface {
	Transfer(ctx context.Context, from Account, to Account, amount uint64) error
	Deposit(ctx context.Context, account Account, amount uint64) error
	Balance(ctx context.Context, account Account) (uint64, error)
}

// NonceStore tracks the last accepted nonce per destination. Advance performs
// the check-and-set: it accepts nonce only when nonce is exactly one past the
// current value for dest, and reports anything else with ErrInvalidNonce.
type NonceStore interface {
	Current(ctx context.Context, dest Destination) (uint64, error)
	Advance(ctx context.Context, dest Destination, nonce uint64) error
}

// AllowlistStore persists the genesis allowlist. Load on an empty store
// returns an empty list, not an error.
type AllowlistStore interface {
	Load(ctx context.Context) (AllowList, error)
	Replace(ctx context.Context, list AllowList) error
}

// AtomicRunner runs fn so that either every state mutation made through it
// commits or none does. Store implementations bind their mutations to the
// context fn receives.
type AtomicRunner interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// Snapshotter is implemented by in-process stores that participate in a
// MemoryAtomicRunner. Snapshot captures current state; Restore rolls back to
// a previously captured snapshot.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// MessageConverter turns a decoded envelope and its instruction set into the
// outbound handoff for the local executor.
type MessageConverter interface {
	Convert(env Envelope, set InstructionSet) (RoutedMessage, error)
}

// OutboundTransport hands a routed message to the destination executor.
// Failures here are recorded, never propagated back to the submitter.
type OutboundTransport interface {
	Send(ctx context.Context, dest Destination, msg RoutedMessage) error
}

// EventSink records one delivery event per accepted submission.
type EventSink interface {
	Record(ctx context.Context, event DeliveryEvent) error
}

type StoreProvider interface {
	NonceStore() NonceStore
	AllowlistStore() AllowlistStore
	Ledger() Ledger
	EventSink() EventSink
	AtomicRunner() AtomicRunner
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
