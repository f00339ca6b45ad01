package core

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ChannelAddressLength is the byte length of an external channel address.
const ChannelAddressLength = 20

// ChannelAddress identifies the sending contract on the external chain.
type ChannelAddress [ChannelAddressLength]byte

func ParseChannelAddress(value string) (ChannelAddress, error) {
	var out ChannelAddress
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return out, fmt.Errorf("core: channel address is required")
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("core: channel address is not valid hex: %w", err)
	}
	if len(raw) != ChannelAddressLength {
		return out, fmt.Errorf("core: channel address must be %d bytes, got %d", ChannelAddressLength, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func MustChannelAddress(value string) ChannelAddress {
	parsed, err := ParseChannelAddress(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func (a ChannelAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a ChannelAddress) IsZero() bool {
	return a == ChannelAddress{}
}

// Destination identifies a local destination chain.
type Destination uint32

// Account identifies a ledger account.
type Account string

func (a Account) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

// RawMessage is a proof-carrying message as submitted by a relayer. Data is
// the claimed external log record and Proof whatever evidence the configured
// verifier consumes; both are opaque to the orchestrator.
type RawMessage struct {
	Data  []byte
	Proof []byte
}

// LogRecord is a verified external log as returned by the Verifier. Address
// carries the emitting channel; Data carries the word-aligned envelope body.
type LogRecord struct {
	Address ChannelAddress
	Data    []byte
}

// Envelope is the decoded inbound message. Channel, Dest, and Nonce are
// immutable once decoded; Payload is interpreted only at dispatch time.
type Envelope struct {
	Channel ChannelAddress
	Dest    Destination
	Nonce   uint64
	Payload []byte
}

// InstructionOp identifies an application-level bridge instruction.
type InstructionOp byte

const (
	OpMintForeignAsset  InstructionOp = 0x01
	OpUnlockNativeAsset InstructionOp = 0x02
	OpInvokeContract    InstructionOp = 0x03
)

func (op InstructionOp) Known() bool {
	switch op {
	case OpMintForeignAsset, OpUnlockNativeAsset, OpInvokeContract:
		return true
	default:
		return false
	}
}

type Instruction struct {
	Op      InstructionOp
	Operand []byte
}

// InstructionSet is the decoded application payload of an envelope.
type InstructionSet struct {
	Version      uint8
	Instructions []Instruction
}

// RoutedMessage is the converted outbound handoff: an opaque transport
// target plus an encoded body for the local executor.
type RoutedMessage struct {
	Target string
	Body   []byte
}

func (m RoutedMessage) IsEmpty() bool {
	return strings.TrimSpace(m.Target) == "" && len(m.Body) == 0
}

// DispatchOutcome classifies the recording-phase result of a submission.
type DispatchOutcome string

const (
	OutcomeInvalidPayload DispatchOutcome = "invalid_payload"
	OutcomeDispatched     DispatchOutcome = "dispatched"
	OutcomeNotDispatched  DispatchOutcome = "not_dispatched"
)

// DispatchResult is observability data only; it never unwinds state that the
// guarded phase already committed. Reason carries the decode or transport
// error text and is empty for OutcomeDispatched.
type DispatchResult struct {
	Outcome DispatchOutcome
	Reason  string
}

// DefaultDeliveryEventLimit is the page size delivery event listings apply
// when the caller passes a non-positive limit.
const DefaultDeliveryEventLimit = 50

// DeliveryEvent is emitted once per accepted submission.
type DeliveryEvent struct {
	ID         string
	Channel    ChannelAddress
	Dest       Destination
	Nonce      uint64
	Result     DispatchResult
	OccurredAt time.Time
}

// SubmissionReceipt is returned to the submission caller on acceptance.
type SubmissionReceipt struct {
	Channel ChannelAddress
	Dest    Destination
	Nonce   uint64
	Result  DispatchResult
}
