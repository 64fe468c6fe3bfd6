package wallet

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var (
	// ErrAlreadyInitialized indicates Initialize ran against a wallet whose
	// state was already seeded. The shared logic instance must never be
	// initialized as if it were a user wallet.
	ErrAlreadyInitialized = errors.New("wallet: already initialized")
	// ErrNotInitialized indicates the configuration store has no parameters yet.
	ErrNotInitialized = errors.New("wallet: not initialized")
)

type storedParams struct {
	FeeInCents                   *big.Int
	PoolFeeLow                   uint32
	PoolFeeMedium                uint32
	PoolFeeHigh                  uint32
	SlippageMaxBps               uint64
	MaxDeadlineSeconds           uint64
	MaxFeeInCents                *big.Int
	PriceFreshnessSeconds        uint64
	PriceFeedPrecisionDigits     uint8
	AllowLegacySignatureFallback bool
}

type storedTokenConfig struct {
	Whitelisted bool
	Feed        [20]byte
	Stable      bool
}

type storedPairFee struct {
	Fee uint32
}

type storedSlippage struct {
	Bps uint64
}

type storedAddressList struct {
	Addrs [][20]byte
}

type storedInitFlag struct {
	Done bool
}

// State is the per-wallet configuration store: whitelist, price feeds, stable
// markers, custom pool fees, custom slippage and the global policy knobs.
type State struct {
	store Storage
}

// NewState binds the configuration store to the provided storage backend.
func NewState(store Storage) *State {
	return &State{store: store}
}

func (s *State) initialized() (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("wallet: state not configured")
	}
	var flag storedInitFlag
	ok, err := s.store.KVGet(walletInitKey, &flag)
	if err != nil {
		return false, err
	}
	return ok && flag.Done, nil
}

func (s *State) markInitialized() error {
	done, err := s.initialized()
	if err != nil {
		return err
	}
	if done {
		return ErrAlreadyInitialized
	}
	return s.store.KVPut(walletInitKey, storedInitFlag{Done: true})
}

// Params loads the current policy knobs.
func (s *State) Params() (Params, error) {
	if s == nil || s.store == nil {
		return Params{}, fmt.Errorf("wallet: state not configured")
	}
	var stored storedParams
	ok, err := s.store.KVGet(walletParamsKey, &stored)
	if err != nil {
		return Params{}, err
	}
	if !ok {
		return Params{}, ErrNotInitialized
	}
	params := Params{
		FeeInCents:                   stored.FeeInCents,
		PoolFeeLow:                   stored.PoolFeeLow,
		PoolFeeMedium:                stored.PoolFeeMedium,
		PoolFeeHigh:                  stored.PoolFeeHigh,
		SlippageMaxBps:               stored.SlippageMaxBps,
		MaxDeadlineSeconds:           stored.MaxDeadlineSeconds,
		MaxFeeInCents:                stored.MaxFeeInCents,
		PriceFreshnessSeconds:        stored.PriceFreshnessSeconds,
		PriceFeedPrecisionDigits:     stored.PriceFeedPrecisionDigits,
		AllowLegacySignatureFallback: stored.AllowLegacySignatureFallback,
	}
	if params.FeeInCents == nil {
		params.FeeInCents = big.NewInt(0)
	}
	if params.MaxFeeInCents == nil {
		params.MaxFeeInCents = big.NewInt(0)
	}
	return params, nil
}

func (s *State) putParams(params Params) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("wallet: state not configured")
	}
	fee := params.FeeInCents
	if fee == nil {
		fee = big.NewInt(0)
	}
	maxFee := params.MaxFeeInCents
	if maxFee == nil {
		maxFee = big.NewInt(0)
	}
	stored := storedParams{
		FeeInCents:                   new(big.Int).Set(fee),
		PoolFeeLow:                   params.PoolFeeLow,
		PoolFeeMedium:                params.PoolFeeMedium,
		PoolFeeHigh:                  params.PoolFeeHigh,
		SlippageMaxBps:               params.SlippageMaxBps,
		MaxDeadlineSeconds:           params.MaxDeadlineSeconds,
		MaxFeeInCents:                new(big.Int).Set(maxFee),
		PriceFreshnessSeconds:        params.PriceFreshnessSeconds,
		PriceFeedPrecisionDigits:     params.PriceFeedPrecisionDigits,
		AllowLegacySignatureFallback: params.AllowLegacySignatureFallback,
	}
	return s.store.KVPut(walletParamsKey, stored)
}

// TokenConfig retrieves the per-token configuration record.
func (s *State) TokenConfig(token ethcommon.Address) (TokenConfig, bool, error) {
	if s == nil || s.store == nil {
		return TokenConfig{}, false, fmt.Errorf("wallet: state not configured")
	}
	var stored storedTokenConfig
	ok, err := s.store.KVGet(tokenConfigKey(token), &stored)
	if err != nil {
		return TokenConfig{}, false, err
	}
	if !ok {
		return TokenConfig{}, false, nil
	}
	cfg := TokenConfig{
		Whitelisted: stored.Whitelisted,
		Feed:        ethcommon.BytesToAddress(stored.Feed[:]),
		Stable:      stored.Stable,
	}
	return cfg, true, nil
}

func (s *State) putTokenConfig(token ethcommon.Address, cfg TokenConfig) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("wallet: state not configured")
	}
	stored := storedTokenConfig{
		Whitelisted: cfg.Whitelisted,
		Stable:      cfg.Stable,
	}
	copy(stored.Feed[:], cfg.Feed.Bytes())
	return s.store.KVPut(tokenConfigKey(token), stored)
}

// PairPoolFee returns the custom pool-fee override for the unordered pair, if
// one is set. A zero stored value counts as unset.
func (s *State) PairPoolFee(a, b ethcommon.Address) (uint32, bool, error) {
	if s == nil || s.store == nil {
		return 0, false, fmt.Errorf("wallet: state not configured")
	}
	var stored storedPairFee
	ok, err := s.store.KVGet(pairFeeKey(a, b), &stored)
	if err != nil {
		return 0, false, err
	}
	if !ok || stored.Fee == 0 {
		return 0, false, nil
	}
	return stored.Fee, true, nil
}

func (s *State) putPairPoolFee(a, b ethcommon.Address, fee uint32) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("wallet: state not configured")
	}
	return s.store.KVPut(pairFeeKey(a, b), storedPairFee{Fee: fee})
}

// TokenSlippage returns the advisory per-token slippage override in basis
// points, if configured.
func (s *State) TokenSlippage(token ethcommon.Address) (uint64, bool, error) {
	if s == nil || s.store == nil {
		return 0, false, fmt.Errorf("wallet: state not configured")
	}
	var stored storedSlippage
	ok, err := s.store.KVGet(tokenSlippageKey(token), &stored)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	return stored.Bps, true, nil
}

func (s *State) putTokenSlippage(token ethcommon.Address, bps uint64) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("wallet: state not configured")
	}
	var index storedAddressList
	if _, err := s.store.KVGet(walletSlipIndexKey, &index); err != nil {
		return err
	}
	known := false
	for _, raw := range index.Addrs {
		if ethcommon.BytesToAddress(raw[:]) == token {
			known = true
			break
		}
	}
	if !known {
		var raw [20]byte
		copy(raw[:], token.Bytes())
		index.Addrs = append(index.Addrs, raw)
		if err := s.store.KVPut(walletSlipIndexKey, index); err != nil {
			return err
		}
	}
	return s.store.KVPut(tokenSlippageKey(token), storedSlippage{Bps: bps})
}

// slippageTokens lists every token that ever received a slippage override, so
// ceiling updates can re-validate the stored values.
func (s *State) slippageTokens() ([]ethcommon.Address, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("wallet: state not configured")
	}
	var index storedAddressList
	ok, err := s.store.KVGet(walletSlipIndexKey, &index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	tokens := make([]ethcommon.Address, 0, len(index.Addrs))
	for _, raw := range index.Addrs {
		tokens = append(tokens, ethcommon.BytesToAddress(raw[:]))
	}
	return tokens, nil
}
