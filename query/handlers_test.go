package query

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-bridge/core"
)

type stubReaders struct {
	nonce      uint64
	nonceErr   error
	allowlist  []core.ChannelAddress
	balance    uint64
	balanceErr error

	listDest  *core.Destination
	listLimit int
	events    []core.DeliveryEvent
	listErr   error
}

func (s *stubReaders) Nonce(_ context.Context, _ core.Destination) (uint64, error) {
	return s.nonce, s.nonceErr
}

func (s *stubReaders) Allowlist() []core.ChannelAddress {
	return s.allowlist
}

func (s *stubReaders) Balance(_ context.Context, _ core.Account) (uint64, error) {
	return s.balance, s.balanceErr
}

func (s *stubReaders) List(_ context.Context, dest *core.Destination, limit int) ([]core.DeliveryEvent, error) {
	s.listDest = dest
	s.listLimit = limit
	return s.events, s.listErr
}

func TestLoadNonceQuery(t *testing.T) {
	q := NewLoadNonceQuery(&stubReaders{nonce: 9})
	nonce, err := q.Query(context.Background(), LoadNonceMessage{Dest: 7})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if nonce != 9 {
		t.Fatalf("expected nonce 9, got %d", nonce)
	}
}

func TestLoadNonceQueryRequiresReader(t *testing.T) {
	q := NewLoadNonceQuery(nil)
	if _, err := q.Query(context.Background(), LoadNonceMessage{Dest: 7}); err == nil {
		t.Fatalf("expected dependency error")
	}
}

func TestListAllowlistQuery(t *testing.T) {
	channel := core.MustChannelAddress("0x1111111111111111111111111111111111111111")
	q := NewListAllowlistQuery(&stubReaders{allowlist: []core.ChannelAddress{channel}})
	channels, err := q.Query(context.Background(), ListAllowlistMessage{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(channels) != 1 || channels[0] != channel {
		t.Fatalf("unexpected allowlist: %v", channels)
	}
}

func TestLoadBalanceQuery(t *testing.T) {
	q := NewLoadBalanceQuery(&stubReaders{balance: 42})
	balance, err := q.Query(context.Background(), LoadBalanceMessage{Account: "relayer-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if balance != 42 {
		t.Fatalf("expected balance 42, got %d", balance)
	}
}

func TestLoadBalanceQueryValidation(t *testing.T) {
	q := NewLoadBalanceQuery(&stubReaders{})
	if _, err := q.Query(context.Background(), LoadBalanceMessage{}); err == nil {
		t.Fatalf("expected missing account rejection")
	}
}

func TestLoadBalanceQueryPropagatesReaderError(t *testing.T) {
	wantErr := errors.New("ledger offline")
	q := NewLoadBalanceQuery(&stubReaders{balanceErr: wantErr})
	if _, err := q.Query(context.Background(), LoadBalanceMessage{Account: "relayer-1"}); !errors.Is(err, wantErr) {
		t.Fatalf("expected reader error, got %v", err)
	}
}

func TestListDeliveryEventsQuery(t *testing.T) {
	dest := core.Destination(7)
	reader := &stubReaders{events: []core.DeliveryEvent{{ID: "evt-1", Dest: dest, Nonce: 1}}}
	q := NewListDeliveryEventsQuery(reader)

	events, err := q.Query(context.Background(), ListDeliveryEventsMessage{Dest: &dest, Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].ID != "evt-1" {
		t.Fatalf("unexpected events: %v", events)
	}
	if reader.listDest == nil || *reader.listDest != dest {
		t.Fatalf("expected dest filter to pass through")
	}
	if reader.listLimit != 10 {
		t.Fatalf("expected limit to pass through, got %d", reader.listLimit)
	}
}

func TestListDeliveryEventsQueryValidation(t *testing.T) {
	q := NewListDeliveryEventsQuery(&stubReaders{})
	if _, err := q.Query(context.Background(), ListDeliveryEventsMessage{Limit: -1}); err == nil {
		t.Fatalf("expected negative limit rejection")
	}
}
