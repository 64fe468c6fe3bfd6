package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/BurntSushi/toml"

	"aawallet/native/wallet"
)

// WalletPolicy models the initial policy knobs loaded from configuration.
// Fee values are decimal strings so operators can express amounts beyond the
// native integer range.
type WalletPolicy struct {
	FeeInCents                   string `toml:"FeeInCents"`
	MaxFeeInCents                string `toml:"MaxFeeInCents"`
	PoolFeeLow                   uint32 `toml:"PoolFeeLow"`
	PoolFeeMedium                uint32 `toml:"PoolFeeMedium"`
	PoolFeeHigh                  uint32 `toml:"PoolFeeHigh"`
	SlippageMaxBps               uint64 `toml:"SlippageMaxBps"`
	MaxDeadlineSeconds           uint64 `toml:"MaxDeadlineSeconds"`
	PriceFreshnessSeconds        uint64 `toml:"PriceFreshnessSeconds"`
	PriceFeedPrecisionDigits     uint8  `toml:"PriceFeedPrecisionDigits"`
	AllowLegacySignatureFallback bool   `toml:"AllowLegacySignatureFallback"`
}

// Load reads a wallet policy from the given TOML file.
func Load(path string) (*WalletPolicy, error) {
	policy := &WalletPolicy{}
	if _, err := toml.DecodeFile(path, policy); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	normalized := policy.Normalise()
	return &normalized, nil
}

// Normalise applies defaults to unset values.
func (p WalletPolicy) Normalise() WalletPolicy {
	cfg := p
	if strings.TrimSpace(cfg.FeeInCents) == "" {
		cfg.FeeInCents = "50"
	}
	if strings.TrimSpace(cfg.MaxFeeInCents) == "" {
		cfg.MaxFeeInCents = "100"
	}
	if cfg.PoolFeeLow == 0 {
		cfg.PoolFeeLow = 500
	}
	if cfg.PoolFeeMedium == 0 {
		cfg.PoolFeeMedium = 3000
	}
	if cfg.PoolFeeHigh == 0 {
		cfg.PoolFeeHigh = 10000
	}
	if cfg.SlippageMaxBps == 0 {
		cfg.SlippageMaxBps = 500
	}
	if cfg.MaxDeadlineSeconds == 0 {
		cfg.MaxDeadlineSeconds = 1800
	}
	if cfg.PriceFreshnessSeconds == 0 {
		cfg.PriceFreshnessSeconds = 3600
	}
	if cfg.PriceFeedPrecisionDigits == 0 {
		cfg.PriceFeedPrecisionDigits = 8
	}
	return cfg
}

// Params converts the policy into the wallet's parameter set.
func (p WalletPolicy) Params() (wallet.Params, error) {
	fee, ok := new(big.Int).SetString(strings.TrimSpace(p.FeeInCents), 10)
	if !ok || fee.Sign() < 0 {
		return wallet.Params{}, fmt.Errorf("config: invalid FeeInCents %q", p.FeeInCents)
	}
	maxFee, ok := new(big.Int).SetString(strings.TrimSpace(p.MaxFeeInCents), 10)
	if !ok || maxFee.Sign() < 0 {
		return wallet.Params{}, fmt.Errorf("config: invalid MaxFeeInCents %q", p.MaxFeeInCents)
	}
	return wallet.Params{
		FeeInCents:                   fee,
		MaxFeeInCents:                maxFee,
		PoolFeeLow:                   p.PoolFeeLow,
		PoolFeeMedium:                p.PoolFeeMedium,
		PoolFeeHigh:                  p.PoolFeeHigh,
		SlippageMaxBps:               p.SlippageMaxBps,
		MaxDeadlineSeconds:           p.MaxDeadlineSeconds,
		PriceFreshnessSeconds:        p.PriceFreshnessSeconds,
		PriceFeedPrecisionDigits:     p.PriceFeedPrecisionDigits,
		AllowLegacySignatureFallback: p.AllowLegacySignatureFallback,
	}, nil
}
