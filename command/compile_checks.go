package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SubmitMessage]        = (*SubmitCommand)(nil)
	_ gocmd.Commander[FundSovereignMessage] = (*FundSovereignCommand)(nil)
)
