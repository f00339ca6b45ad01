package command

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-bridge/core"
)

type stubMutatingService struct {
	submitRelayer core.Account
	submitMessage core.RawMessage
	submitReceipt core.SubmissionReceipt
	submitErr     error

	fundDest   core.Destination
	fundAmount uint64
	fundErr    error
}

func (s *stubMutatingService) Submit(_ context.Context, relayer core.Account, msg core.RawMessage) (core.SubmissionReceipt, error) {
	s.submitRelayer = relayer
	s.submitMessage = msg
	return s.submitReceipt, s.submitErr
}

func (s *stubMutatingService) FundSovereign(_ context.Context, dest core.Destination, amount uint64) error {
	s.fundDest = dest
	s.fundAmount = amount
	return s.fundErr
}

func TestSubmitCommandExecute(t *testing.T) {
	service := &stubMutatingService{
		submitReceipt: core.SubmissionReceipt{
			Dest:   7,
			Nonce:  1,
			Result: core.DispatchResult{Outcome: core.OutcomeDispatched},
		},
	}
	cmd := NewSubmitCommand(service)

	msg := SubmitMessage{
		Relayer: "relayer-1",
		Message: core.RawMessage{Data: []byte{0x01}},
	}
	if err := cmd.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if service.submitRelayer != "relayer-1" {
		t.Fatalf("expected relayer to pass through, got %s", service.submitRelayer)
	}
	if len(service.submitMessage.Data) != 1 {
		t.Fatalf("expected message to pass through")
	}
}

func TestSubmitCommandPropagatesServiceError(t *testing.T) {
	wantErr := errors.New("nonce out of sequence")
	cmd := NewSubmitCommand(&stubMutatingService{submitErr: wantErr})

	err := cmd.Execute(context.Background(), SubmitMessage{
		Relayer: "relayer-1",
		Message: core.RawMessage{Data: []byte{0x01}},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestSubmitCommandValidation(t *testing.T) {
	cmd := NewSubmitCommand(&stubMutatingService{})

	cases := []struct {
		name string
		msg  SubmitMessage
	}{
		{"missing relayer", SubmitMessage{Message: core.RawMessage{Data: []byte{0x01}}}},
		{"missing data", SubmitMessage{Relayer: "relayer-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := cmd.Execute(context.Background(), tc.msg); err == nil {
				t.Fatalf("expected validation rejection")
			}
		})
	}
}

func TestSubmitCommandRequiresService(t *testing.T) {
	cmd := NewSubmitCommand(nil)
	err := cmd.Execute(context.Background(), SubmitMessage{
		Relayer: "relayer-1",
		Message: core.RawMessage{Data: []byte{0x01}},
	})
	if err == nil {
		t.Fatalf("expected dependency error")
	}
}

func TestFundSovereignCommandExecute(t *testing.T) {
	service := &stubMutatingService{}
	cmd := NewFundSovereignCommand(service)

	if err := cmd.Execute(context.Background(), FundSovereignMessage{Dest: 7, Amount: 100}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if service.fundDest != 7 || service.fundAmount != 100 {
		t.Fatalf("expected fund call to pass through, got dest %d amount %d", service.fundDest, service.fundAmount)
	}
}

func TestFundSovereignCommandValidation(t *testing.T) {
	cmd := NewFundSovereignCommand(&stubMutatingService{})
	if err := cmd.Execute(context.Background(), FundSovereignMessage{Dest: 7}); err == nil {
		t.Fatalf("expected zero amount rejection")
	}
}

func TestFundSovereignCommandRequiresService(t *testing.T) {
	cmd := NewFundSovereignCommand(nil)
	if err := cmd.Execute(context.Background(), FundSovereignMessage{Dest: 7, Amount: 1}); err == nil {
		t.Fatalf("expected dependency error")
	}
}
