package wallet

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidFeedDecimals indicates the feed's precision does not match policy.
	ErrInvalidFeedDecimals = errors.New("wallet: invalid feed decimals")
	// ErrAlreadyStable indicates a duplicate stable-token mark.
	ErrAlreadyStable = errors.New("wallet: token already stable")
	// ErrNotStable indicates an unmark of a token that is not stable.
	ErrNotStable = errors.New("wallet: token not stable")
	// ErrPoolFeeTooHigh indicates a custom pool fee above the high tier.
	ErrPoolFeeTooHigh = errors.New("wallet: pool fee above high tier")
	// ErrSlippageTooHigh indicates a slippage setting above the ceiling.
	ErrSlippageTooHigh = errors.New("wallet: slippage above ceiling")
	// ErrFeeTooHigh indicates a fee update above the configured maximum.
	ErrFeeTooHigh = errors.New("wallet: fee above maximum")
)

// WhitelistToken marks a token eligible for transfer and swap, binding its
// price feed. The feed's reported precision is validated here, at set time;
// later feed misbehavior is caught by the fee engine. Re-whitelisting the
// same token and feed is idempotent beyond re-emitted events. Owner-gated.
func (w *Wallet) WhitelistToken(caller, token, feedAddr ethcommon.Address) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	if token == (ethcommon.Address{}) || feedAddr == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if w.feeds == nil {
		return ErrFeedUnavailable
	}
	feed, ok := w.feeds.Feed(feedAddr)
	if !ok {
		return ErrFeedUnavailable
	}
	decimals, err := feed.Decimals()
	if err != nil {
		return fmt.Errorf("wallet: feed decimals: %w", err)
	}
	params, err := w.state.Params()
	if err != nil {
		return err
	}
	if decimals != params.PriceFeedPrecisionDigits {
		return ErrInvalidFeedDecimals
	}
	cfg, _, err := w.state.TokenConfig(token)
	if err != nil {
		return err
	}
	cfg.Whitelisted = true
	cfg.Feed = feedAddr
	if err := w.state.putTokenConfig(token, cfg); err != nil {
		return err
	}
	w.emit(NewTokenWhitelistedEvent(token, feedAddr))
	w.emit(NewPriceFeedUpdatedEvent(token, feedAddr))
	return nil
}

// RemoveWhitelistedToken revokes eligibility and clears the feed entry.
// Owner-gated.
func (w *Wallet) RemoveWhitelistedToken(caller, token ethcommon.Address) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	cfg, ok, err := w.state.TokenConfig(token)
	if err != nil {
		return err
	}
	if !ok || !cfg.Whitelisted {
		return ErrTokenNotWhitelisted
	}
	cfg.Whitelisted = false
	cfg.Feed = ethcommon.Address{}
	if err := w.state.putTokenConfig(token, cfg); err != nil {
		return err
	}
	w.emit(NewTokenRemovedEvent(token))
	return nil
}

// AddStableToken marks a token low-volatility for pool-tier selection.
// Duplicate marks are rejected. Owner-gated.
func (w *Wallet) AddStableToken(caller, token ethcommon.Address) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	cfg, _, err := w.state.TokenConfig(token)
	if err != nil {
		return err
	}
	if cfg.Stable {
		return ErrAlreadyStable
	}
	cfg.Stable = true
	if err := w.state.putTokenConfig(token, cfg); err != nil {
		return err
	}
	w.emit(NewStableTokenEvent(token, true))
	return nil
}

// RemoveStableToken unmarks a stable token. Owner-gated.
func (w *Wallet) RemoveStableToken(caller, token ethcommon.Address) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	cfg, ok, err := w.state.TokenConfig(token)
	if err != nil {
		return err
	}
	if !ok || !cfg.Stable {
		return ErrNotStable
	}
	cfg.Stable = false
	if err := w.state.putTokenConfig(token, cfg); err != nil {
		return err
	}
	w.emit(NewStableTokenEvent(token, false))
	return nil
}

// SetCustomPoolFee stores a pool-fee override for the unordered pair. A
// non-zero override always wins over tier-derived selection; zero clears it.
// Owner-gated.
func (w *Wallet) SetCustomPoolFee(caller, tokenA, tokenB ethcommon.Address, fee uint32) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	params, err := w.state.Params()
	if err != nil {
		return err
	}
	if fee > params.PoolFeeHigh {
		return ErrPoolFeeTooHigh
	}
	if err := w.state.putPairPoolFee(tokenA, tokenB, fee); err != nil {
		return err
	}
	w.emit(NewCustomPoolFeeEvent(tokenA, tokenB, fee))
	return nil
}

// SetCustomSlippage stores the advisory per-token slippage override in basis
// points, bounded by the global ceiling. Owner-gated.
func (w *Wallet) SetCustomSlippage(caller, token ethcommon.Address, bps uint64) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	params, err := w.state.Params()
	if err != nil {
		return err
	}
	if bps > params.SlippageMaxBps {
		return ErrSlippageTooHigh
	}
	if err := w.state.putTokenSlippage(token, bps); err != nil {
		return err
	}
	w.emit(NewCustomSlippageEvent(token, bps))
	return nil
}

// SetPoolFeeTiers replaces the three global AMM fee tiers. Owner-gated.
func (w *Wallet) SetPoolFeeTiers(caller ethcommon.Address, low, medium, high uint32) error {
	return w.updateParams(caller, func(params *Params) error {
		if low == 0 || low > medium || medium > high {
			return fmt.Errorf("%w: pool fee tiers must be ascending", ErrInvalidParams)
		}
		params.PoolFeeLow = low
		params.PoolFeeMedium = medium
		params.PoolFeeHigh = high
		return nil
	})
}

// SetSlippageCeiling replaces the global cap for per-token slippage
// overrides. A ceiling below any stored override is rejected so the
// override <= ceiling invariant holds at all times, not just at set time.
// Owner-gated.
func (w *Wallet) SetSlippageCeiling(caller ethcommon.Address, bps uint64) error {
	return w.updateParams(caller, func(params *Params) error {
		if bps > 10000 {
			return fmt.Errorf("%w: slippage ceiling must not exceed 10000 bps", ErrInvalidParams)
		}
		tokens, err := w.state.slippageTokens()
		if err != nil {
			return err
		}
		for _, token := range tokens {
			stored, ok, err := w.state.TokenSlippage(token)
			if err != nil {
				return err
			}
			if ok && stored > bps {
				return ErrSlippageTooHigh
			}
		}
		params.SlippageMaxBps = bps
		return nil
	})
}

// SetPricePolicy updates the oracle freshness window and the required feed
// precision. Owner-gated.
func (w *Wallet) SetPricePolicy(caller ethcommon.Address, freshnessSeconds uint64, precisionDigits uint8) error {
	return w.updateParams(caller, func(params *Params) error {
		if freshnessSeconds == 0 {
			return fmt.Errorf("%w: freshness window required", ErrInvalidParams)
		}
		params.PriceFreshnessSeconds = freshnessSeconds
		params.PriceFeedPrecisionDigits = precisionDigits
		return nil
	})
}

// SetOperationPolicy updates the swap deadline horizon and the fee ceiling.
// Lowering the ceiling below the current fee is rejected to preserve the
// fee <= maxFee invariant. Owner-gated.
func (w *Wallet) SetOperationPolicy(caller ethcommon.Address, maxDeadlineSeconds uint64, maxFeeInCents *big.Int) error {
	return w.updateParams(caller, func(params *Params) error {
		if maxFeeInCents == nil || maxFeeInCents.Sign() < 0 {
			return fmt.Errorf("%w: max fee required", ErrInvalidParams)
		}
		if params.FeeInCents != nil && params.FeeInCents.Cmp(maxFeeInCents) > 0 {
			return ErrFeeTooHigh
		}
		params.MaxDeadlineSeconds = maxDeadlineSeconds
		params.MaxFeeInCents = new(big.Int).Set(maxFeeInCents)
		return nil
	})
}

// SetLegacySignatureFallback toggles the legacy personal-message verification
// path. Owner-gated.
func (w *Wallet) SetLegacySignatureFallback(caller ethcommon.Address, enabled bool) error {
	return w.updateParams(caller, func(params *Params) error {
		params.AllowLegacySignatureFallback = enabled
		return nil
	})
}

// SetFee updates the protocol fee in fiat cents, bounded by the configured
// maximum. Admin-gated: authority is resolved through the registry owner at
// call time.
func (w *Wallet) SetFee(caller ethcommon.Address, cents *big.Int) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireAdmin(caller); err != nil {
		return err
	}
	if cents == nil || cents.Sign() < 0 {
		return fmt.Errorf("%w: fee required", ErrInvalidParams)
	}
	params, err := w.state.Params()
	if err != nil {
		return err
	}
	if cents.Cmp(params.MaxFeeInCents) > 0 {
		return ErrFeeTooHigh
	}
	params.FeeInCents = new(big.Int).Set(cents)
	if err := w.state.putParams(params); err != nil {
		return err
	}
	w.emit(NewFeeUpdatedEvent(cents))
	return nil
}

func (w *Wallet) updateParams(caller ethcommon.Address, mutate func(*Params) error) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.requireOwner(caller); err != nil {
		return err
	}
	params, err := w.state.Params()
	if err != nil {
		return err
	}
	if err := mutate(&params); err != nil {
		return err
	}
	return w.state.putParams(params)
}
