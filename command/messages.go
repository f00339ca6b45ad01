package command

import (
	"fmt"

	"github.com/goliatone/go-bridge/core"
)

const (
	TypeSubmitMessage = "bridge.command.message.submit"
	TypeFundSovereign = "bridge.command.sovereign.fund"
)

type SubmitMessage struct {
	Relayer core.Account
	Message core.RawMessage
}

func (SubmitMessage) Type() string { return TypeSubmitMessage }

func (m SubmitMessage) Validate() error {
	if m.Relayer.IsZero() {
		return fmt.Errorf("command: relayer account is required")
	}
	if len(m.Message.Data) == 0 {
		return fmt.Errorf("command: message data is required")
	}
	return nil
}

type FundSovereignMessage struct {
	Dest   core.Destination
	Amount uint64
}

func (FundSovereignMessage) Type() string { return TypeFundSovereign }

func (m FundSovereignMessage) Validate() error {
	if m.Amount == 0 {
		return fmt.Errorf("command: fund amount must be positive")
	}
	return nil
}
