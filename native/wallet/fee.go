package wallet

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"aawallet/observability/metrics"
)

var (
	// ErrInvalidPrice indicates the oracle reported a non-positive price.
	ErrInvalidPrice = errors.New("wallet: invalid oracle price")
	// ErrInvalidPriceRound indicates the oracle round is incomplete.
	ErrInvalidPriceRound = errors.New("wallet: incomplete oracle round")
	// ErrStalePrice indicates the oracle reading exceeded the freshness window.
	ErrStalePrice = errors.New("wallet: stale oracle price")
	// ErrInvalidDecimals indicates the token reports an unreasonable decimal count.
	ErrInvalidDecimals = errors.New("wallet: invalid token decimals")
	// ErrFeeOverflow indicates the configured fee breaches the conversion bound.
	ErrFeeOverflow = errors.New("wallet: fee overflow")
	// ErrFeedUnavailable indicates no feed adapter is bound to the configured address.
	ErrFeedUnavailable = errors.New("wallet: price feed unavailable")
	// ErrTokenNotWhitelisted indicates the token is not eligible for transfer or swap.
	ErrTokenNotWhitelisted = errors.New("wallet: token not whitelisted")
	// ErrTokenUnavailable indicates no contract binding exists for the token address.
	ErrTokenUnavailable = errors.New("wallet: token unavailable")
)

// maxTokenDecimals guards the multiply-before-divide conversion: 10^78 no
// longer fits a 256-bit word, so anything above 77 is rejected outright.
const maxTokenDecimals = 77

var (
	oracleScale = uint256.NewInt(100_000_000) // 8-decimal fixed point
	centsPerUsd = uint256.NewInt(100)
	weiPerEther = uint256.NewInt(1_000_000_000_000_000_000)
)

// feeOverflowBound is MaxUint256/1e8/1e18, the conservative ceiling under
// which the conversion numerator cannot wrap for any realistic decimal count.
func feeOverflowBound() *uint256.Int {
	bound := new(uint256.Int).Div(
		new(uint256.Int).Not(uint256.NewInt(0)),
		oracleScale,
	)
	return bound.Div(bound, weiPerEther)
}

// ComputeFee converts the wallet's current fee, denominated in fiat cents,
// into native units of the supplied token using its oracle price. Read-only.
func (w *Wallet) ComputeFee(token ethcommon.Address) (*big.Int, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet: not configured")
	}
	params, err := w.state.Params()
	if err != nil {
		return nil, err
	}
	return w.computeFee(token, params.FeeInCents, params.PriceFreshnessSeconds)
}

func (w *Wallet) computeFee(token ethcommon.Address, feeCents *big.Int, freshnessSeconds uint64) (*big.Int, error) {
	cfg, ok, err := w.state.TokenConfig(token)
	if err != nil {
		return nil, err
	}
	if !ok || !cfg.Whitelisted {
		return nil, ErrTokenNotWhitelisted
	}
	if w.feeds == nil {
		return nil, ErrFeedUnavailable
	}
	feed, ok := w.feeds.Feed(cfg.Feed)
	if !ok {
		return nil, ErrFeedUnavailable
	}
	round, err := feed.LatestRoundData()
	if err != nil {
		return nil, fmt.Errorf("wallet: oracle read: %w", err)
	}
	if round.Answer == nil || round.Answer.Sign() <= 0 {
		metrics.Wallet().ObserveFeeRejection("invalid_price")
		return nil, ErrInvalidPrice
	}
	if round.AnsweredInRound == nil || round.RoundID == nil || round.AnsweredInRound.Cmp(round.RoundID) < 0 {
		metrics.Wallet().ObserveFeeRejection("invalid_round")
		return nil, ErrInvalidPriceRound
	}
	now := w.now().Unix()
	if round.UpdatedAt <= 0 || now-round.UpdatedAt > int64(freshnessSeconds) {
		metrics.Wallet().ObserveFeeRejection("stale_price")
		return nil, ErrStalePrice
	}
	decimals, err := w.tokenDecimals(token)
	if err != nil {
		return nil, err
	}
	if decimals > maxTokenDecimals {
		metrics.Wallet().ObserveFeeRejection("invalid_decimals")
		return nil, ErrInvalidDecimals
	}
	return convertCentsToToken(feeCents, round.Answer, decimals)
}

func (w *Wallet) tokenDecimals(token ethcommon.Address) (uint8, error) {
	if w.tokens == nil {
		return 0, ErrTokenUnavailable
	}
	bound, ok := w.tokens.Token(token)
	if !ok {
		return 0, ErrTokenUnavailable
	}
	decimals, err := bound.Decimals()
	if err != nil {
		return 0, fmt.Errorf("wallet: token decimals: %w", err)
	}
	return decimals, nil
}

// convertCentsToToken performs the exact integer conversion
// feeCents * 10^decimals * 1e8 / (price * 100), multiplying before dividing
// so the only rounding is the final truncating division. All intermediate
// arithmetic is 256-bit and overflow-checked.
func convertCentsToToken(feeCents, price *big.Int, decimals uint8) (*big.Int, error) {
	if feeCents == nil || feeCents.Sign() < 0 {
		return nil, ErrFeeOverflow
	}
	if feeCents.Sign() == 0 {
		return big.NewInt(0), nil
	}
	fee, overflow := uint256.FromBig(feeCents)
	if overflow || fee.Cmp(feeOverflowBound()) >= 0 {
		return nil, ErrFeeOverflow
	}
	priceU, overflow := uint256.FromBig(price)
	if overflow {
		return nil, ErrInvalidPrice
	}
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))

	numerator, overflow := new(uint256.Int).MulOverflow(fee, scale)
	if overflow {
		return nil, ErrFeeOverflow
	}
	numerator, overflow = numerator.MulOverflow(numerator, oracleScale)
	if overflow {
		return nil, ErrFeeOverflow
	}
	denominator, overflow := new(uint256.Int).MulOverflow(priceU, centsPerUsd)
	if overflow || denominator.IsZero() {
		return nil, ErrInvalidPrice
	}
	return new(uint256.Int).Div(numerator, denominator).ToBig(), nil
}
