package bridge

import (
	"fmt"

	bridgecommand "github.com/goliatone/go-bridge/command"
	"github.com/goliatone/go-bridge/core"
	bridgequery "github.com/goliatone/go-bridge/query"
)

type CommandQueryService interface {
	bridgecommand.MutatingService
	bridgequery.NonceReader
	bridgequery.AllowlistReader
	bridgequery.BalanceReader
}

type Commands struct {
	Submit        *bridgecommand.SubmitCommand
	FundSovereign *bridgecommand.FundSovereignCommand
}

type Queries struct {
	LoadNonce          *bridgequery.LoadNonceQuery
	ListAllowlist      *bridgequery.ListAllowlistQuery
	LoadBalance        *bridgequery.LoadBalanceQuery
	ListDeliveryEvents *bridgequery.ListDeliveryEventsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	eventReader bridgequery.DeliveryEventReader
}

func WithDeliveryEventReader(reader bridgequery.DeliveryEventReader) FacadeOption {
	return func(options *facadeOptions) {
		options.eventReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("bridge: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.eventReader
	if reader == nil {
		reader = resolveEventReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Submit:        bridgecommand.NewSubmitCommand(service),
		FundSovereign: bridgecommand.NewFundSovereignCommand(service),
	}
	facade.queries = Queries{
		LoadNonce:          bridgequery.NewLoadNonceQuery(service),
		ListAllowlist:      bridgequery.NewListAllowlistQuery(service),
		LoadBalance:        bridgequery.NewLoadBalanceQuery(service),
		ListDeliveryEvents: bridgequery.NewListDeliveryEventsQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveEventReader(service CommandQueryService) bridgequery.DeliveryEventReader {
	if reader, ok := service.(bridgequery.DeliveryEventReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if reader, ok := deps.EventSink.(bridgequery.DeliveryEventReader); ok {
		return reader
	}
	return nil
}
