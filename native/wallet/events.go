package wallet

import (
	"math/big"
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"aawallet/core/types"
)

const (
	// EventTypeOperationValidated is emitted after every validation call.
	EventTypeOperationValidated = "wallet.operationValidated"
	// EventTypeTransferRequested is emitted when a transfer entry point is
	// invoked, before any precondition runs.
	EventTypeTransferRequested = "wallet.transferRequested"
	// EventTypeTransferExecuted is emitted after a fee-deducted transfer.
	EventTypeTransferExecuted = "wallet.transferExecuted"
	// EventTypeSwapExecuted is emitted after a successful swap.
	EventTypeSwapExecuted = "wallet.swapExecuted"
	// EventTypeTokenApproved is emitted when the router allowance is set.
	EventTypeTokenApproved = "wallet.tokenApproved"
	// EventTypeFeeUpdated is emitted on admin fee changes.
	EventTypeFeeUpdated = "wallet.feeUpdated"
	// EventTypeTokenWhitelisted is emitted when a token becomes eligible.
	EventTypeTokenWhitelisted = "wallet.tokenWhitelisted"
	// EventTypeTokenRemoved is emitted when eligibility is revoked.
	EventTypeTokenRemoved = "wallet.tokenRemoved"
	// EventTypePriceFeedUpdated is emitted when a token's feed binding changes.
	EventTypePriceFeedUpdated = "wallet.priceFeedUpdated"
	// EventTypeStableToken is emitted on stable mark/unmark.
	EventTypeStableToken = "wallet.stableToken"
	// EventTypeCustomPoolFee is emitted when a pair override is stored.
	EventTypeCustomPoolFee = "wallet.customPoolFeeSet"
	// EventTypeCustomSlippage is emitted when a token override is stored.
	EventTypeCustomSlippage = "wallet.customSlippageSet"
	// EventTypePrefundForwarded is emitted on each prefund attempt.
	EventTypePrefundForwarded = "wallet.prefundForwarded"
)

type walletEvent struct {
	evt *types.Event
}

func (e walletEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event returns the underlying payload.
func (e walletEvent) Event() *types.Event { return e.evt }

func amountAttr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewOperationValidatedEvent records the coded validation outcome.
func NewOperationValidatedEvent(sender ethcommon.Address, outcome ValidationOutcome) *types.Event {
	return &types.Event{Type: EventTypeOperationValidated, Attributes: map[string]string{
		"sender":  sender.Hex(),
		"outcome": outcome.String(),
	}}
}

// NewTransferRequestedEvent records a transfer invocation before validation.
func NewTransferRequestedEvent(token, recipient ethcommon.Address, amount *big.Int) *types.Event {
	return &types.Event{Type: EventTypeTransferRequested, Attributes: map[string]string{
		"token":     token.Hex(),
		"recipient": recipient.Hex(),
		"amount":    amountAttr(amount),
	}}
}

// NewTransferExecutedEvent records a completed fee-deducted transfer.
func NewTransferExecutedEvent(token, recipient ethcommon.Address, amount, fee *big.Int) *types.Event {
	return &types.Event{Type: EventTypeTransferExecuted, Attributes: map[string]string{
		"token":     token.Hex(),
		"recipient": recipient.Hex(),
		"amount":    amountAttr(amount),
		"fee":       amountAttr(fee),
	}}
}

// NewSwapExecutedEvent records a routed swap and the tier it used.
func NewSwapExecutedEvent(tokenIn, tokenOut ethcommon.Address, amountIn, amountOut *big.Int, poolFee uint32) *types.Event {
	return &types.Event{Type: EventTypeSwapExecuted, Attributes: map[string]string{
		"tokenIn":   tokenIn.Hex(),
		"tokenOut":  tokenOut.Hex(),
		"amountIn":  amountAttr(amountIn),
		"amountOut": amountAttr(amountOut),
		"poolFee":   strconv.FormatUint(uint64(poolFee), 10),
	}}
}

// NewTokenApprovedEvent records a router allowance.
func NewTokenApprovedEvent(token, spender ethcommon.Address, amount *big.Int) *types.Event {
	return &types.Event{Type: EventTypeTokenApproved, Attributes: map[string]string{
		"token":   token.Hex(),
		"spender": spender.Hex(),
		"amount":  amountAttr(amount),
	}}
}

// NewFeeUpdatedEvent records the new protocol fee in fiat cents.
func NewFeeUpdatedEvent(cents *big.Int) *types.Event {
	return &types.Event{Type: EventTypeFeeUpdated, Attributes: map[string]string{
		"feeInCents": amountAttr(cents),
	}}
}

// NewTokenWhitelistedEvent records a token becoming eligible with its feed.
func NewTokenWhitelistedEvent(token, feed ethcommon.Address) *types.Event {
	return &types.Event{Type: EventTypeTokenWhitelisted, Attributes: map[string]string{
		"token": token.Hex(),
		"feed":  feed.Hex(),
	}}
}

// NewTokenRemovedEvent records a token losing eligibility.
func NewTokenRemovedEvent(token ethcommon.Address) *types.Event {
	return &types.Event{Type: EventTypeTokenRemoved, Attributes: map[string]string{
		"token": token.Hex(),
	}}
}

// NewPriceFeedUpdatedEvent records a feed binding change.
func NewPriceFeedUpdatedEvent(token, feed ethcommon.Address) *types.Event {
	return &types.Event{Type: EventTypePriceFeedUpdated, Attributes: map[string]string{
		"token": token.Hex(),
		"feed":  feed.Hex(),
	}}
}

// NewStableTokenEvent records a stable mark or unmark.
func NewStableTokenEvent(token ethcommon.Address, stable bool) *types.Event {
	return &types.Event{Type: EventTypeStableToken, Attributes: map[string]string{
		"token":  token.Hex(),
		"stable": strconv.FormatBool(stable),
	}}
}

// NewCustomPoolFeeEvent records a pair override.
func NewCustomPoolFeeEvent(tokenA, tokenB ethcommon.Address, fee uint32) *types.Event {
	return &types.Event{Type: EventTypeCustomPoolFee, Attributes: map[string]string{
		"tokenA":  tokenA.Hex(),
		"tokenB":  tokenB.Hex(),
		"poolFee": strconv.FormatUint(uint64(fee), 10),
	}}
}

// NewCustomSlippageEvent records a per-token slippage override.
func NewCustomSlippageEvent(token ethcommon.Address, bps uint64) *types.Event {
	return &types.Event{Type: EventTypeCustomSlippage, Attributes: map[string]string{
		"token": token.Hex(),
		"bps":   strconv.FormatUint(bps, 10),
	}}
}

// NewPrefundForwardedEvent records a best-effort prefund attempt.
func NewPrefundForwardedEvent(dispatcher ethcommon.Address, amount *big.Int) *types.Event {
	return &types.Event{Type: EventTypePrefundForwarded, Attributes: map[string]string{
		"dispatcher": dispatcher.Hex(),
		"amount":     amountAttr(amount),
	}}
}
