// Package bridge exposes the inbound bridge service: relayer submissions are
// verified against the external chain, gated by the genesis allowlist,
// sequenced per destination, rewarded, and dispatched to local executors.
package bridge

import "github.com/goliatone/go-bridge/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type ChannelAddress = core.ChannelAddress
type Destination = core.Destination
type Account = core.Account
type RawMessage = core.RawMessage
type Envelope = core.Envelope
type SubmissionReceipt = core.SubmissionReceipt
type DeliveryEvent = core.DeliveryEvent
type DispatchResult = core.DispatchResult

type Verifier = core.Verifier
type Ledger = core.Ledger
type MessageConverter = core.MessageConverter
type OutboundTransport = core.OutboundTransport
type NonceStore = core.NonceStore
type AllowlistStore = core.AllowlistStore
type EventSink = core.EventSink
type AtomicRunner = core.AtomicRunner

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithVerifier          = core.WithVerifier
	WithMessageConverter  = core.WithMessageConverter
	WithOutboundTransport = core.WithOutboundTransport
	WithNonceStore        = core.WithNonceStore
	WithAllowlistStore    = core.WithAllowlistStore
	WithLedger            = core.WithLedger
	WithEventSink         = core.WithEventSink
	WithAtomicRunner      = core.WithAtomicRunner
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}

// SovereignAccount derives the reward-paying account for a destination.
func SovereignAccount(dest Destination) Account {
	return core.SovereignAccount(dest)
}
