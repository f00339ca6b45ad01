package query

import (
	"fmt"

	"github.com/goliatone/go-bridge/core"
)

const (
	TypeLoadNonce          = "bridge.query.nonce.load"
	TypeListAllowlist      = "bridge.query.allowlist.list"
	TypeLoadBalance        = "bridge.query.balance.load"
	TypeListDeliveryEvents = "bridge.query.delivery_events.list"
)

type LoadNonceMessage struct {
	Dest core.Destination
}

func (LoadNonceMessage) Type() string { return TypeLoadNonce }

func (LoadNonceMessage) Validate() error { return nil }

type ListAllowlistMessage struct{}

func (ListAllowlistMessage) Type() string { return TypeListAllowlist }

func (ListAllowlistMessage) Validate() error { return nil }

type LoadBalanceMessage struct {
	Account core.Account
}

func (LoadBalanceMessage) Type() string { return TypeLoadBalance }

func (m LoadBalanceMessage) Validate() error {
	if m.Account.IsZero() {
		return fmt.Errorf("query: account is required")
	}
	return nil
}

type ListDeliveryEventsMessage struct {
	Dest  *core.Destination
	Limit int
}

func (ListDeliveryEventsMessage) Type() string { return TypeListDeliveryEvents }

func (m ListDeliveryEventsMessage) Validate() error {
	if m.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}
