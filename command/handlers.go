package command

import (
	"context"

	"github.com/goliatone/go-bridge/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	Submit(ctx context.Context, relayer core.Account, msg core.RawMessage) (core.SubmissionReceipt, error)
	FundSovereign(ctx context.Context, dest core.Destination, amount uint64) error
}

type SubmitCommand struct {
	service MutatingService
}

func NewSubmitCommand(service MutatingService) *SubmitCommand {
	return &SubmitCommand{service: service}
}

func (c *SubmitCommand) Execute(ctx context.Context, msg SubmitMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: submit service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: submit message rejected")
	}
	out, err := c.service.Submit(ctx, msg.Relayer, msg.Message)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type FundSovereignCommand struct {
	service MutatingService
}

func NewFundSovereignCommand(service MutatingService) *FundSovereignCommand {
	return &FundSovereignCommand{service: service}
}

func (c *FundSovereignCommand) Execute(ctx context.Context, msg FundSovereignMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: fund service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: fund message rejected")
	}
	return c.service.FundSovereign(ctx, msg.Dest, msg.Amount)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
