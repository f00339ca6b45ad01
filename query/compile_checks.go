package query

import (
	"github.com/goliatone/go-bridge/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[LoadNonceMessage, uint64]                        = (*LoadNonceQuery)(nil)
	_ gocmd.Querier[ListAllowlistMessage, []core.ChannelAddress]     = (*ListAllowlistQuery)(nil)
	_ gocmd.Querier[LoadBalanceMessage, uint64]                      = (*LoadBalanceQuery)(nil)
	_ gocmd.Querier[ListDeliveryEventsMessage, []core.DeliveryEvent] = (*ListDeliveryEventsQuery)(nil)
)
