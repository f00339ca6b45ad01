package core

import (
	"context"
	"fmt"
)

// dispatch runs the recording phase for an accepted envelope. It never
// returns an error: the guarded phase has already committed, so payload and
// transport failures are classified into the result instead of unwinding
// anything.
func (s *Service) dispatch(ctx context.Context, env Envelope) DispatchResult {
	set, err := DecodeInstructions(env.Payload)
	if err != nil {
		s.logInfo(ctx, "payload decode failed", map[string]any{
			"channel": env.Channel.String(),
			"dest":    uint32(env.Dest),
			"nonce":   env.Nonce,
			"error":   err.Error(),
		})
		return DispatchResult{Outcome: OutcomeInvalidPayload, Reason: err.Error()}
	}

	routed, err := s.converter.Convert(env, set)
	if err != nil {
		return DispatchResult{Outcome: OutcomeInvalidPayload, Reason: err.Error()}
	}

	if err := s.transport.Send(ctx, env.Dest, routed); err != nil {
		return DispatchResult{Outcome: OutcomeNotDispatched, Reason: err.Error()}
	}
	return DispatchResult{Outcome: OutcomeDispatched}
}

// PassthroughConverter routes the decoded instructions to the destination
// unchanged, re-encoded in the canonical layout.
type PassthroughConverter struct{}

func (PassthroughConverter) Convert(env Envelope, set InstructionSet) (RoutedMessage, error) {
	body, err := EncodeInstructions(set)
	if err != nil {
		return RoutedMessage{}, err
	}
	return RoutedMessage{
		Target: fmt.Sprintf("dest:%d", uint32(env.Dest)),
		Body:   body,
	}, nil
}

// NoopTransport accepts every routed message without delivering anywhere.
type NoopTransport struct{}

func (NoopTransport) Send(context.Context, Destination, RoutedMessage) error {
	return nil
}

var (
	_ MessageConverter  = PassthroughConverter{}
	_ OutboundTransport = NoopTransport{}
)
