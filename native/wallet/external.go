package wallet

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Storage abstracts the subset of state access required by the configuration
// store.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// PriceFeed supplies oracle readings for a single token. Decimals must report
// the feed's fixed precision independently of any reading.
type PriceFeed interface {
	LatestRoundData() (RoundData, error)
	Decimals() (uint8, error)
}

// FeedSource resolves a configured feed address to its adapter.
type FeedSource interface {
	Feed(addr ethcommon.Address) (PriceFeed, bool)
}

// ERC20 is the token surface the executor consumes. Transfer and Approve
// follow the safe-transfer convention: a falsy return without an error is a
// failure, not a success.
type ERC20 interface {
	BalanceOf(account ethcommon.Address) (*big.Int, error)
	Decimals() (uint8, error)
	Transfer(to ethcommon.Address, amount *big.Int) (bool, error)
	Approve(spender ethcommon.Address, amount *big.Int) (bool, error)
}

// TokenSource resolves a token address to its contract binding.
type TokenSource interface {
	Token(addr ethcommon.Address) (ERC20, bool)
}

// ExactInputSingleParams describes a single-hop exact-input swap. A nil
// SqrtPriceLimitX96 means no price limit.
type ExactInputSingleParams struct {
	TokenIn           ethcommon.Address
	TokenOut          ethcommon.Address
	Fee               uint32
	Recipient         ethcommon.Address
	Deadline          int64
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// SwapRouter executes swaps against the configured AMM.
type SwapRouter interface {
	ExactInputSingle(params ExactInputSingleParams) (*big.Int, error)
}

// OwnerRegistry exposes the factory/registry whose current owner is the
// wallet's administrative authority. The owner is looked up on every
// privileged call, never cached, so registry ownership transfers propagate
// instantly.
type OwnerRegistry interface {
	Owner() (ethcommon.Address, error)
}

// NativeSender forwards native currency out of the wallet.
type NativeSender interface {
	Send(to ethcommon.Address, amount *big.Int) error
}

// CallInvoker performs an arbitrary external call on behalf of the wallet.
type CallInvoker interface {
	Call(target ethcommon.Address, value *big.Int, payload []byte) ([]byte, error)
}
