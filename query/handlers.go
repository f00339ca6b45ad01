package query

import (
	"context"

	"github.com/goliatone/go-bridge/core"
)

type NonceReader interface {
	Nonce(ctx context.Context, dest core.Destination) (uint64, error)
}

type AllowlistReader interface {
	Allowlist() []core.ChannelAddress
}

type BalanceReader interface {
	Balance(ctx context.Context, account core.Account) (uint64, error)
}

// DeliveryEventReader lists recorded delivery events newest first. A nil
// dest means all destinations; a non-positive limit applies
// core.DefaultDeliveryEventLimit.
type DeliveryEventReader interface {
	List(ctx context.Context, dest *core.Destination, limit int) ([]core.DeliveryEvent, error)
}

type LoadNonceQuery struct {
	reader NonceReader
}

func NewLoadNonceQuery(reader NonceReader) *LoadNonceQuery {
	return &LoadNonceQuery{reader: reader}
}

func (q *LoadNonceQuery) Query(ctx context.Context, msg LoadNonceMessage) (uint64, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: nonce reader is required")
	}
	return q.reader.Nonce(ctx, msg.Dest)
}

type ListAllowlistQuery struct {
	reader AllowlistReader
}

func NewListAllowlistQuery(reader AllowlistReader) *ListAllowlistQuery {
	return &ListAllowlistQuery{reader: reader}
}

func (q *ListAllowlistQuery) Query(_ context.Context, _ ListAllowlistMessage) ([]core.ChannelAddress, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: allowlist reader is required")
	}
	return q.reader.Allowlist(), nil
}

type LoadBalanceQuery struct {
	reader BalanceReader
}

func NewLoadBalanceQuery(reader BalanceReader) *LoadBalanceQuery {
	return &LoadBalanceQuery{reader: reader}
}

func (q *LoadBalanceQuery) Query(ctx context.Context, msg LoadBalanceMessage) (uint64, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: balance reader is required")
	}
	if err := msg.Validate(); err != nil {
		return 0, queryWrapValidation(err, "query: balance message rejected")
	}
	return q.reader.Balance(ctx, msg.Account)
}

type ListDeliveryEventsQuery struct {
	reader DeliveryEventReader
}

func NewListDeliveryEventsQuery(reader DeliveryEventReader) *ListDeliveryEventsQuery {
	return &ListDeliveryEventsQuery{reader: reader}
}

func (q *ListDeliveryEventsQuery) Query(ctx context.Context, msg ListDeliveryEventsMessage) ([]core.DeliveryEvent, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: delivery event reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, queryWrapValidation(err, "query: delivery events message rejected")
	}
	return q.reader.List(ctx, msg.Dest, msg.Limit)
}
