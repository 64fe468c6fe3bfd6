package wallet

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Operation is a dispatcher-routed instruction bundle approved by the wallet
// owner. The layout mirrors the sponsored-transaction format the dispatcher
// hashes on its side: the digest covers every field except the signature.
type Operation struct {
	Sender               ethcommon.Address
	Nonce                *big.Int
	InitPayload          []byte
	CallPayload          []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	SponsorPayload       []byte
	Signature            []byte
}

// SponsorAddress extracts the fee-sponsor address from the sponsor payload.
// A payload shorter than an address yields the zero address.
func (op *Operation) SponsorAddress() ethcommon.Address {
	if op == nil || len(op.SponsorPayload) < ethcommon.AddressLength {
		return ethcommon.Address{}
	}
	return ethcommon.BytesToAddress(op.SponsorPayload[:ethcommon.AddressLength])
}

// ValidationOutcome is the coded result of operation validation. Bad
// signatures are reported through the outcome, never as an error, so that
// simulation tooling can distinguish "will fail" from "fails now".
type ValidationOutcome uint8

const (
	// OutcomeAccepted indicates the operation carries a valid owner signature.
	OutcomeAccepted ValidationOutcome = iota
	// OutcomeRejected indicates no verification strategy accepted the signature.
	OutcomeRejected
)

// String renders the outcome for events and metrics labels.
func (o ValidationOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RoundData captures a single oracle reading in the 8-decimal fixed-point
// convention used by the configured price feeds.
type RoundData struct {
	RoundID         *big.Int
	Answer          *big.Int
	StartedAt       int64
	UpdatedAt       int64
	AnsweredInRound *big.Int
}

// Params holds the wallet's owner- and admin-mutable policy knobs.
type Params struct {
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

// Clone returns a deep copy so callers cannot alias the stored big integers.
func (p Params) Clone() Params {
	clone := p
	if p.FeeInCents != nil {
		clone.FeeInCents = new(big.Int).Set(p.FeeInCents)
	}
	if p.MaxFeeInCents != nil {
		clone.MaxFeeInCents = new(big.Int).Set(p.MaxFeeInCents)
	}
	return clone
}

// TokenConfig is the per-token slice of the configuration store. A whitelisted
// token always carries a non-zero price feed; removal clears the feed entry.
type TokenConfig struct {
	Whitelisted bool
	Feed        ethcommon.Address
	Stable      bool
}
