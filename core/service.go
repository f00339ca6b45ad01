package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Service is the inbound bridge orchestrator. One instance owns the whole
// acceptance pipeline: proof verification, envelope decode, allowlist gate,
// the atomic nonce-advance plus reward-transfer pair, and the fail-open
// dispatch that follows.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	verifier          Verifier
	converter         MessageConverter
	transport         OutboundTransport
	nonceStore        NonceStore
	allowlistStore    AllowlistStore
	ledger            Ledger
	eventSink         EventSink
	atomicRunner      AtomicRunner
	allowlist         AllowList

	destMu    sync.Mutex
	destLocks map[Destination]*sync.Mutex
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	Verifier          Verifier
	Converter         MessageConverter
	Transport         OutboundTransport
	NonceStore        NonceStore
	AllowlistStore    AllowlistStore
	Ledger            Ledger
	EventSink         EventSink
	AtomicRunner      AtomicRunner
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("bridge", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("bridge"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.converter == nil {
		builder.converter = PassthroughConverter{}
	}
	if builder.transport == nil {
		builder.transport = NoopTransport{}
	}
	if builder.verifier == nil {
		return nil, bridgeBadInput("core: verifier is required", nil)
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.repositoryFactory != nil {
		var storeProvider StoreProvider
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			built, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			storeProvider = built
		} else if built, ok := builder.repositoryFactory.(StoreProvider); ok {
			storeProvider = built
		}
		if storeProvider != nil {
			if builder.nonceStore == nil {
				builder.nonceStore = storeProvider.NonceStore()
			}
			if builder.allowlistStore == nil {
				builder.allowlistStore = storeProvider.AllowlistStore()
			}
			if builder.ledger == nil {
				builder.ledger = storeProvider.Ledger()
			}
			if builder.eventSink == nil {
				builder.eventSink = storeProvider.EventSink()
			}
			if builder.atomicRunner == nil {
				builder.atomicRunner = storeProvider.AtomicRunner()
			}
		}
	}

	if builder.nonceStore == nil {
		builder.nonceStore = NewMemoryNonceStore()
	}
	if builder.ledger == nil {
		builder.ledger = NewMemoryLedger()
	}
	if builder.allowlistStore == nil {
		builder.allowlistStore = NewMemoryAllowlistStore()
	}
	if builder.eventSink == nil {
		builder.eventSink = &LoggerEventSink{Logger: logger}
	}
	if builder.atomicRunner == nil {
		// The default runner rolls the guarded section back via snapshots,
		// so every store it guards must be a Snapshotter. Stores that are
		// not must ship their own runner.
		nonceSnapshotter, ok := builder.nonceStore.(Snapshotter)
		if !ok {
			return nil, bridgeBadInput("core: nonce store does not support snapshots, provide an atomic runner", nil)
		}
		ledgerSnapshotter, ok := builder.ledger.(Snapshotter)
		if !ok {
			return nil, bridgeBadInput("core: ledger does not support snapshots, provide an atomic runner", nil)
		}
		builder.atomicRunner = NewMemoryAtomicRunner(nonceSnapshotter, ledgerSnapshotter)
	}

	allowlist, err := resolveGenesisAllowlist(context.Background(), finalConfig, builder.allowlistStore)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		verifier:          builder.verifier,
		converter:         builder.converter,
		transport:         builder.transport,
		nonceStore:        builder.nonceStore,
		allowlistStore:    builder.allowlistStore,
		ledger:            builder.ledger,
		eventSink:         builder.eventSink,
		atomicRunner:      builder.atomicRunner,
		allowlist:         allowlist,
		destLocks:         map[Destination]*sync.Mutex{},
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

// resolveGenesisAllowlist installs the configured allowlist into the durable
// store, or reloads the persisted one when the config carries no entries.
// The set never changes after this point.
func resolveGenesisAllowlist(ctx context.Context, cfg Config, store AllowlistStore) (AllowList, error) {
	channels, err := cfg.AllowlistChannels()
	if err != nil {
		return AllowList{}, err
	}
	if len(channels) == 0 {
		return store.Load(ctx)
	}
	list, err := NewAllowList(channels)
	if err != nil {
		return AllowList{}, err
	}
	if err := store.Replace(ctx, list); err != nil {
		return AllowList{}, err
	}
	return list, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		Verifier:          s.verifier,
		Converter:         s.converter,
		Transport:         s.transport,
		NonceStore:        s.nonceStore,
		AllowlistStore:    s.allowlistStore,
		Ledger:            s.ledger,
		EventSink:         s.eventSink,
		AtomicRunner:      s.atomicRunner,
	}
}

// Submit runs one relayer submission through the full acceptance pipeline.
// The relayer account receives the configured reward from the destination's
// sovereign account. The returned receipt reports the dispatch result for
// accepted messages; a non-nil error means the message was rejected and no
// state changed.
func (s *Service) Submit(ctx context.Context, relayer Account, msg RawMessage) (receipt SubmissionReceipt, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"relayer": string(relayer),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "submit", err, fields)
	}()

	if relayer.IsZero() {
		err = s.mapError(bridgeBadInput("core: relayer account is required", nil))
		return SubmissionReceipt{}, err
	}

	log, err := s.verifier.Verify(ctx, msg)
	if err != nil {
		wrapped := goerrors.Wrap(err, goerrors.CategoryAuth, "message verification failed").
			WithTextCode(BridgeErrorVerificationFailed)
		err = s.mapError(wrapped)
		return SubmissionReceipt{}, err
	}

	env, err := DecodeEnvelope(log)
	if err != nil {
		err = s.mapError(err)
		return SubmissionReceipt{}, err
	}
	fields["channel"] = env.Channel.String()
	fields["dest"] = uint32(env.Dest)
	fields["nonce"] = env.Nonce

	if !s.allowlist.Contains(env.Channel) {
		err = s.mapError(fmt.Errorf("core: channel %s: %w", env.Channel, ErrInvalidOutboundQueue))
		return SubmissionReceipt{}, err
	}

	lock := s.destLock(env.Dest)
	lock.Lock()
	defer lock.Unlock()

	err = s.atomicRunner.RunAtomic(ctx, func(ctx context.Context) error {
		if advanceErr := s.nonceStore.Advance(ctx, env.Dest, env.Nonce); advanceErr != nil {
			return advanceErr
		}
		if s.config.Reward == 0 {
			return nil
		}
		return s.ledger.Transfer(ctx, SovereignAccount(env.Dest), relayer, s.config.Reward)
	})
	if err != nil {
		err = s.mapError(err)
		return SubmissionReceipt{}, err
	}

	result := s.dispatch(ctx, env)
	fields["outcome"] = string(result.Outcome)

	event := DeliveryEvent{
		ID:         uuid.NewString(),
		Channel:    env.Channel,
		Dest:       env.Dest,
		Nonce:      env.Nonce,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	}
	if recordErr := s.eventSink.Record(ctx, event); recordErr != nil {
		s.logError(ctx, "delivery event record failed", map[string]any{
			"channel": env.Channel.String(),
			"dest":    uint32(env.Dest),
			"nonce":   env.Nonce,
			"error":   recordErr.Error(),
		})
	}

	receipt = SubmissionReceipt{
		Channel: env.Channel,
		Dest:    env.Dest,
		Nonce:   env.Nonce,
		Result:  result,
	}
	return receipt, nil
}

// FundSovereign deposits reward funds into the sovereign account fronting
// dest. Rewards for messages bound to dest are paid from this account.
func (s *Service) FundSovereign(ctx context.Context, dest Destination, amount uint64) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"dest":   uint32(dest),
		"amount": amount,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "fund_sovereign", err, fields)
	}()

	if amount == 0 {
		err = s.mapError(bridgeBadInput("core: fund amount must be positive", nil))
		return err
	}
	if depositErr := s.ledger.Deposit(ctx, SovereignAccount(dest), amount); depositErr != nil {
		err = s.mapError(depositErr)
		return err
	}
	return nil
}

// Balance reports the ledger balance of an account.
func (s *Service) Balance(ctx context.Context, account Account) (uint64, error) {
	if s == nil || s.ledger == nil {
		return 0, bridgeInternal("core: ledger unavailable", nil)
	}
	balance, err := s.ledger.Balance(ctx, account)
	if err != nil {
		return 0, s.mapError(err)
	}
	return balance, nil
}

// Nonce reports the last accepted nonce for dest, zero when no message has
// been accepted yet.
func (s *Service) Nonce(ctx context.Context, dest Destination) (uint64, error) {
	if s == nil || s.nonceStore == nil {
		return 0, bridgeInternal("core: nonce store unavailable", nil)
	}
	current, err := s.nonceStore.Current(ctx, dest)
	if err != nil {
		return 0, s.mapError(err)
	}
	return current, nil
}

// Allowlist returns the genesis channel set in stable order.
func (s *Service) Allowlist() []ChannelAddress {
	if s == nil {
		return nil
	}
	return s.allowlist.Channels()
}

func (s *Service) Reward() uint64 {
	if s == nil {
		return 0
	}
	return s.config.Reward
}

func (s *Service) destLock(dest Destination) *sync.Mutex {
	s.destMu.Lock()
	defer s.destMu.Unlock()
	lock, ok := s.destLocks[dest]
	if !ok {
		lock = &sync.Mutex{}
		s.destLocks[dest] = lock
	}
	return lock
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
