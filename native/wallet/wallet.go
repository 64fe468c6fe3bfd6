package wallet

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"aawallet/core/events"
	"aawallet/core/types"
	nativecommon "aawallet/native/common"
)

var (
	// ErrUnauthorizedCaller indicates the caller does not hold the authority
	// the entry point requires (dispatcher, owner or live-resolved admin).
	ErrUnauthorizedCaller = errors.New("wallet: unauthorized caller")
	// ErrInvalidParams indicates the supplied policy knobs violate an invariant.
	ErrInvalidParams = errors.New("wallet: invalid parameters")
)

// Config wires a wallet instance to its collaborators and identity. The
// dispatcher, sponsor and router addresses are fixed for the life of the
// instance; administrative authority is always resolved via Registry.
type Config struct {
	Address    ethcommon.Address
	Owner      ethcommon.Address
	Dispatcher ethcommon.Address
	FeeSponsor ethcommon.Address
	RouterAddr ethcommon.Address
	ChainID    *big.Int

	Store    Storage
	Feeds    FeedSource
	Tokens   TokenSource
	Router   SwapRouter
	Registry OwnerRegistry
	Native   NativeSender
	Invoker  CallInvoker
}

// Wallet is the operation-validation and fee/swap execution engine of one
// deployed wallet instance.
type Wallet struct {
	guard nativecommon.ReentrancyGuard

	state    *State
	feeds    FeedSource
	tokens   TokenSource
	router   SwapRouter
	registry OwnerRegistry
	native   NativeSender
	invoker  CallInvoker

	emitter events.Emitter
	clock   func() time.Time

	address    ethcommon.Address
	owner      ethcommon.Address
	dispatcher ethcommon.Address
	feeSponsor ethcommon.Address
	routerAddr ethcommon.Address
	chainID    *big.Int
}

// New constructs a wallet engine. The instance is unusable until Initialize
// has seeded the configuration store exactly once.
func New(cfg Config) (*Wallet, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("wallet: storage required")
	}
	if cfg.Dispatcher == (ethcommon.Address{}) {
		return nil, fmt.Errorf("wallet: dispatcher address required")
	}
	if cfg.Owner == (ethcommon.Address{}) {
		return nil, fmt.Errorf("wallet: owner address required")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, fmt.Errorf("wallet: chain id required")
	}
	w := &Wallet{
		state:      NewState(cfg.Store),
		feeds:      cfg.Feeds,
		tokens:     cfg.Tokens,
		router:     cfg.Router,
		registry:   cfg.Registry,
		native:     cfg.Native,
		invoker:    cfg.Invoker,
		emitter:    events.NoopEmitter{},
		clock:      time.Now,
		address:    cfg.Address,
		owner:      cfg.Owner,
		dispatcher: cfg.Dispatcher,
		feeSponsor: cfg.FeeSponsor,
		routerAddr: cfg.RouterAddr,
		chainID:    new(big.Int).Set(cfg.ChainID),
	}
	return w, nil
}

// Initialize seeds the configuration store. A second call returns
// ErrAlreadyInitialized regardless of the supplied parameters.
func (w *Wallet) Initialize(params Params) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := validateParams(params); err != nil {
		return err
	}
	if err := w.state.markInitialized(); err != nil {
		return err
	}
	return w.state.putParams(params.Clone())
}

func validateParams(params Params) error {
	if params.FeeInCents == nil || params.MaxFeeInCents == nil {
		return fmt.Errorf("%w: fee bounds required", ErrInvalidParams)
	}
	if params.FeeInCents.Sign() < 0 || params.MaxFeeInCents.Sign() < 0 {
		return fmt.Errorf("%w: fee bounds must not be negative", ErrInvalidParams)
	}
	if params.FeeInCents.Cmp(params.MaxFeeInCents) > 0 {
		return fmt.Errorf("%w: fee exceeds max fee", ErrInvalidParams)
	}
	if params.PoolFeeLow == 0 || params.PoolFeeLow > params.PoolFeeMedium || params.PoolFeeMedium > params.PoolFeeHigh {
		return fmt.Errorf("%w: pool fee tiers must be ascending", ErrInvalidParams)
	}
	if params.SlippageMaxBps > 10000 {
		return fmt.Errorf("%w: slippage ceiling must not exceed 10000 bps", ErrInvalidParams)
	}
	return nil
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (w *Wallet) SetEmitter(emitter events.Emitter) {
	if w == nil {
		return
	}
	if emitter == nil {
		w.emitter = events.NoopEmitter{}
		return
	}
	w.emitter = emitter
}

// SetClock overrides the time source, primarily for deterministic testing.
func (w *Wallet) SetClock(clock func() time.Time) {
	if w == nil || clock == nil {
		return
	}
	w.clock = clock
}

// State exposes the configuration store for read access.
func (w *Wallet) State() *State {
	if w == nil {
		return nil
	}
	return w.state
}

// Owner returns the wallet owner address.
func (w *Wallet) Owner() ethcommon.Address {
	if w == nil {
		return ethcommon.Address{}
	}
	return w.owner
}

// Dispatcher returns the trusted dispatcher address.
func (w *Wallet) Dispatcher() ethcommon.Address {
	if w == nil {
		return ethcommon.Address{}
	}
	return w.dispatcher
}

// Admin resolves the current administrative authority via the registry. The
// result is never cached so registry ownership transfers apply immediately.
func (w *Wallet) Admin() (ethcommon.Address, error) {
	if w == nil || w.registry == nil {
		return ethcommon.Address{}, fmt.Errorf("wallet: registry not configured")
	}
	return w.registry.Owner()
}

func (w *Wallet) emit(event *types.Event) {
	if w == nil || w.emitter == nil || event == nil {
		return
	}
	w.emitter.Emit(walletEvent{evt: event})
}

func (w *Wallet) now() time.Time {
	if w == nil || w.clock == nil {
		return time.Now()
	}
	return w.clock()
}

func (w *Wallet) requireOwner(caller ethcommon.Address) error {
	if caller != w.owner {
		return ErrUnauthorizedCaller
	}
	return nil
}

func (w *Wallet) requireAdmin(caller ethcommon.Address) error {
	admin, err := w.Admin()
	if err != nil {
		return err
	}
	if caller != admin {
		return ErrUnauthorizedCaller
	}
	return nil
}

func (w *Wallet) requireDispatcher(caller ethcommon.Address) error {
	if caller != w.dispatcher {
		return ErrUnauthorizedCaller
	}
	return nil
}
