package core

import (
	"context"
	"fmt"
	"sync"
)

// MemoryNonceStore tracks per-destination nonces in process. It participates
// in MemoryAtomicRunner via Snapshotter.
type MemoryNonceStore struct {
	mu     sync.Mutex
	nonces map[Destination]uint64
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{nonces: map[Destination]uint64{}}
}

func (s *MemoryNonceStore) Current(_ context.Context, dest Destination) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonces[dest], nil
}

func (s *MemoryNonceStore) Advance(_ context.Context, dest Destination, nonce uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.nonces[dest]
	if nonce != current+1 {
		return fmt.Errorf("core: dest %d expects nonce %d, got %d: %w", dest, current+1, nonce, ErrInvalidNonce)
	}
	s.nonces[dest] = nonce
	return nil
}

func (s *MemoryNonceStore) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[Destination]uint64, len(s.nonces))
	for dest, nonce := range s.nonces {
		copied[dest] = nonce
	}
	return copied
}

func (s *MemoryNonceStore) Restore(snapshot any) {
	nonces, ok := snapshot.(map[Destination]uint64)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces = make(map[Destination]uint64, len(nonces))
	for dest, nonce := range nonces {
		s.nonces[dest] = nonce
	}
}

// MemoryLedger holds account balances in process. Transfer keeps the source
// above MinBalance, matching the durable ledger's preserve rule.
type MemoryLedger struct {
	mu         sync.Mutex
	balances   map[Account]uint64
	MinBalance uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: map[Account]uint64{}}
}

func (l *MemoryLedger) Deposit(_ context.Context, account Account, amount uint64) error {
	if account.IsZero() {
		return fmt.Errorf("core: deposit account is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context, account Account) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

func (l *MemoryLedger) Transfer(_ context.Context, from Account, to Account, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("core: transfer requires both accounts")
	}
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	balance := l.balances[from]
	if balance < amount || balance-amount < l.MinBalance {
		return fmt.Errorf("core: account %s holds %d, cannot send %d keeping %d: %w",
			from, balance, amount, l.MinBalance, ErrInsufficientFunds)
	}
	l.balances[from] = balance - amount
	l.balances[to] += amount
	return nil
}

func (l *MemoryLedger) Snapshot() any {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := make(map[Account]uint64, len(l.balances))
	for account, balance := range l.balances {
		copied[account] = balance
	}
	return copied
}

func (l *MemoryLedger) Restore(snapshot any) {
	balances, ok := snapshot.(map[Account]uint64)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = make(map[Account]uint64, len(balances))
	for account, balance := range balances {
		l.balances[account] = balance
	}
}

// MemoryAllowlistStore keeps the genesis allowlist in process.
type MemoryAllowlistStore struct {
	mu   sync.Mutex
	list AllowList
}

func NewMemoryAllowlistStore() *MemoryAllowlistStore {
	return &MemoryAllowlistStore{}
}

func (s *MemoryAllowlistStore) Load(context.Context) (AllowList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list, nil
}

func (s *MemoryAllowlistStore) Replace(_ context.Context, list AllowList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = list
	return nil
}

// MemoryEventSink collects delivery events in process.
type MemoryEventSink struct {
	mu     sync.Mutex
	events []DeliveryEvent
}

func NewMemoryEventSink() *MemoryEventSink {
	return &MemoryEventSink{}
}

func (s *MemoryEventSink) Record(_ context.Context, event DeliveryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryEventSink) Events() []DeliveryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeliveryEvent(nil), s.events...)
}

// List returns recorded events newest first, optionally scoped to dest. A
// non-positive limit applies DefaultDeliveryEventLimit.
func (s *MemoryEventSink) List(_ context.Context, dest *Destination, limit int) ([]DeliveryEvent, error) {
	if limit <= 0 {
		limit = DefaultDeliveryEventLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []DeliveryEvent{}
	for i := len(s.events) - 1; i >= 0; i-- {
		event := s.events[i]
		if dest != nil && event.Dest != *dest {
			continue
		}
		out = append(out, event)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// LoggerEventSink records delivery events as structured log lines.
type LoggerEventSink struct {
	Logger Logger
}

func (s *LoggerEventSink) Record(ctx context.Context, event DeliveryEvent) error {
	if s == nil || s.Logger == nil {
		return nil
	}
	logger := s.Logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	logger.Info("message delivered",
		"event_id", event.ID,
		"channel", event.Channel.String(),
		"dest", uint32(event.Dest),
		"nonce", event.Nonce,
		"outcome", string(event.Result.Outcome),
		"reason", event.Result.Reason,
	)
	return nil
}

// MemoryAtomicRunner serializes guarded sections and rolls participants back
// to their pre-section snapshots when fn fails.
type MemoryAtomicRunner struct {
	mu           sync.Mutex
	participants []Snapshotter
}

func NewMemoryAtomicRunner(participants ...Snapshotter) *MemoryAtomicRunner {
	return &MemoryAtomicRunner{participants: participants}
}

func (r *MemoryAtomicRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshots := make([]any, len(r.participants))
	for i, participant := range r.participants {
		snapshots[i] = participant.Snapshot()
	}
	if err := fn(ctx); err != nil {
		for i := len(r.participants) - 1; i >= 0; i-- {
			r.participants[i].Restore(snapshots[i])
		}
		return err
	}
	return nil
}

var (
	_ NonceStore     = (*MemoryNonceStore)(nil)
	_ Ledger         = (*MemoryLedger)(nil)
	_ AllowlistStore = (*MemoryAllowlistStore)(nil)
	_ EventSink      = (*MemoryEventSink)(nil)
	_ EventSink      = (*LoggerEventSink)(nil)
	_ AtomicRunner   = (*MemoryAtomicRunner)(nil)
	_ Snapshotter    = (*MemoryNonceStore)(nil)
	_ Snapshotter    = (*MemoryLedger)(nil)
)
