package wallet

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"aawallet/observability/metrics"
)

var (
	// ErrZeroAmount indicates a transfer or swap amount of zero.
	ErrZeroAmount = errors.New("wallet: amount must be positive")
	// ErrZeroAddress indicates a zero recipient address.
	ErrZeroAddress = errors.New("wallet: recipient required")
	// ErrInsufficientBalance indicates the wallet holds less than the requested amount.
	ErrInsufficientBalance = errors.New("wallet: insufficient balance")
	// ErrAmountBelowFee indicates the amount cannot cover twice the protocol fee.
	ErrAmountBelowFee = errors.New("wallet: amount below fee floor")
	// ErrLengthMismatch indicates the batch arrays differ in length.
	ErrLengthMismatch = errors.New("wallet: array length mismatch")
	// ErrTokenTransferFailed is the single failure signal for any token
	// transfer fault, including a falsy return without an error.
	ErrTokenTransferFailed = errors.New("wallet: token transfer failed")
	// ErrTokenApproveFailed is the single failure signal for approval faults.
	ErrTokenApproveFailed = errors.New("wallet: token approve failed")
	// ErrSwapFailed is the single failure signal for any router fault. The
	// specific router error is not re-surfaced so upstream logic sees one
	// stable failure taxonomy.
	ErrSwapFailed = errors.New("wallet: swap failed")
	// ErrSelfCallForbidden indicates AdminExecute targeted the wallet itself.
	ErrSelfCallForbidden = errors.New("wallet: self call forbidden")
)

// transferEntry is a fully validated batch item, ready to apply.
type transferEntry struct {
	token     ERC20
	tokenAddr ethcommon.Address
	recipient ethcommon.Address
	amount    *big.Int
	fee       *big.Int
}

// Transfer sends amount of token to recipient, deducting the protocol fee to
// the fee sponsor. Dispatcher-only.
func (w *Wallet) Transfer(caller, token, recipient ethcommon.Address, amount *big.Int) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.guard.Enter(); err != nil {
		return err
	}
	defer w.guard.Exit()
	if err := w.requireDispatcher(caller); err != nil {
		return err
	}
	w.emit(NewTransferRequestedEvent(token, recipient, amount))
	entry, err := w.checkTransferEntry(token, recipient, amount, nil)
	if err != nil {
		return err
	}
	return w.applyTransfer(entry)
}

// BatchTransfer applies the same preconditions per entry and executes them in
// order. Mismatched lengths or any invalid entry abort the whole batch before
// a single token moves. The validation phase reserves each entry's outflow
// against the starting balance, so entries that are individually covered but
// jointly overdraw the wallet reject up front instead of failing mid-apply.
// Dispatcher-only.
func (w *Wallet) BatchTransfer(caller ethcommon.Address, tokens, recipients []ethcommon.Address, amounts []*big.Int) error {
	if w == nil {
		return fmt.Errorf("wallet: not configured")
	}
	if err := w.guard.Enter(); err != nil {
		return err
	}
	defer w.guard.Exit()
	if err := w.requireDispatcher(caller); err != nil {
		return err
	}
	if len(tokens) != len(recipients) || len(tokens) != len(amounts) {
		return ErrLengthMismatch
	}
	entries := make([]*transferEntry, 0, len(tokens))
	reserved := make(map[ethcommon.Address]*big.Int, len(tokens))
	for i := range tokens {
		w.emit(NewTransferRequestedEvent(tokens[i], recipients[i], amounts[i]))
		entry, err := w.checkTransferEntry(tokens[i], recipients[i], amounts[i], reserved[tokens[i]])
		if err != nil {
			return fmt.Errorf("wallet: batch entry %d: %w", i, err)
		}
		taken := reserved[tokens[i]]
		if taken == nil {
			taken = new(big.Int)
			reserved[tokens[i]] = taken
		}
		taken.Add(taken, entry.amount)
		entries = append(entries, entry)
	}
	for _, entry := range entries {
		if err := w.applyTransfer(entry); err != nil {
			return err
		}
	}
	return nil
}

// checkTransferEntry validates one transfer. A non-nil reserved amount is
// outflow already committed to earlier batch entries of the same token and is
// subtracted from the balance before the coverage check.
func (w *Wallet) checkTransferEntry(token, recipient ethcommon.Address, amount, reserved *big.Int) (*transferEntry, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if recipient == (ethcommon.Address{}) {
		return nil, ErrZeroAddress
	}
	params, err := w.state.Params()
	if err != nil {
		return nil, err
	}
	fee, err := w.computeFee(token, params.FeeInCents, params.PriceFreshnessSeconds)
	if err != nil {
		return nil, err
	}
	bound, ok := w.tokens.Token(token)
	if !ok {
		return nil, ErrTokenUnavailable
	}
	balance, err := bound.BalanceOf(w.address)
	if err != nil {
		return nil, fmt.Errorf("wallet: balance read: %w", err)
	}
	if balance == nil {
		return nil, ErrInsufficientBalance
	}
	available := new(big.Int).Set(balance)
	if reserved != nil {
		available.Sub(available, reserved)
	}
	if available.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}
	// amount >= 2*fee keeps the post-fee payout strictly positive.
	floor := new(big.Int).Lsh(fee, 1)
	if amount.Cmp(floor) < 0 {
		return nil, ErrAmountBelowFee
	}
	return &transferEntry{
		token:     bound,
		tokenAddr: token,
		recipient: recipient,
		amount:    new(big.Int).Set(amount),
		fee:       fee,
	}, nil
}

func (w *Wallet) applyTransfer(entry *transferEntry) error {
	if entry.fee.Sign() > 0 {
		if err := safeTransfer(entry.token, w.feeSponsor, entry.fee); err != nil {
			return err
		}
	}
	payout := new(big.Int).Sub(entry.amount, entry.fee)
	if err := safeTransfer(entry.token, entry.recipient, payout); err != nil {
		return err
	}
	metrics.Wallet().ObserveTransfer()
	w.emit(NewTransferExecutedEvent(entry.tokenAddr, entry.recipient, entry.amount, entry.fee))
	return nil
}

// Swap routes amountIn of tokenIn through the AMM after deducting the
// protocol fee, delivering at least minAmountOut of tokenOut to recipient.
// Dispatcher-or-owner.
func (w *Wallet) Swap(caller, tokenIn, tokenOut ethcommon.Address, amountIn, minAmountOut *big.Int, recipient ethcommon.Address) (*big.Int, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet: not configured")
	}
	if err := w.guard.Enter(); err != nil {
		return nil, err
	}
	defer w.guard.Exit()
	if caller != w.dispatcher && caller != w.owner {
		return nil, ErrUnauthorizedCaller
	}
	entry, err := w.checkTransferEntry(tokenIn, recipient, amountIn, nil)
	if err != nil {
		return nil, err
	}
	outCfg, ok, err := w.state.TokenConfig(tokenOut)
	if err != nil {
		return nil, err
	}
	if !ok || !outCfg.Whitelisted {
		return nil, ErrTokenNotWhitelisted
	}
	params, err := w.state.Params()
	if err != nil {
		return nil, err
	}
	poolFee, err := w.resolvePoolFee(params, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}

	if entry.fee.Sign() > 0 {
		if err := safeTransfer(entry.token, w.feeSponsor, entry.fee); err != nil {
			return nil, err
		}
	}
	swapAmount := new(big.Int).Sub(entry.amount, entry.fee)
	if err := safeApprove(entry.token, w.routerAddr, swapAmount); err != nil {
		return nil, err
	}
	w.emit(NewTokenApprovedEvent(tokenIn, w.routerAddr, swapAmount))

	amountOut, err := w.routeSwap(ExactInputSingleParams{
		TokenIn:          tokenIn,
		TokenOut:         tokenOut,
		Fee:              poolFee,
		Recipient:        recipient,
		Deadline:         w.now().Unix() + int64(params.MaxDeadlineSeconds),
		AmountIn:         swapAmount,
		AmountOutMinimum: minAmountOut,
	})
	if err != nil {
		metrics.Wallet().ObserveSwap("failed")
		return nil, err
	}
	metrics.Wallet().ObserveSwap("executed")
	w.emit(NewSwapExecutedEvent(tokenIn, tokenOut, swapAmount, amountOut, poolFee))
	return amountOut, nil
}

// resolvePoolFee selects the AMM tier: a non-zero custom pair override always
// wins, else the low tier when both tokens are stable, else the medium tier.
func (w *Wallet) resolvePoolFee(params Params, tokenIn, tokenOut ethcommon.Address) (uint32, error) {
	custom, ok, err := w.state.PairPoolFee(tokenIn, tokenOut)
	if err != nil {
		return 0, err
	}
	if ok {
		return custom, nil
	}
	inCfg, _, err := w.state.TokenConfig(tokenIn)
	if err != nil {
		return 0, err
	}
	outCfg, _, err := w.state.TokenConfig(tokenOut)
	if err != nil {
		return 0, err
	}
	if inCfg.Stable && outCfg.Stable {
		return params.PoolFeeLow, nil
	}
	return params.PoolFeeMedium, nil
}

// routeSwap invokes the router, normalizing every failure mode, including a
// panicking binding, to ErrSwapFailed.
func (w *Wallet) routeSwap(params ExactInputSingleParams) (amountOut *big.Int, err error) {
	if w.router == nil {
		return nil, ErrSwapFailed
	}
	defer func() {
		if r := recover(); r != nil {
			amountOut = nil
			err = ErrSwapFailed
		}
	}()
	out, routerErr := w.router.ExactInputSingle(params)
	if routerErr != nil || out == nil {
		return nil, ErrSwapFailed
	}
	return out, nil
}

// AdminExecute performs an arbitrary external call, restricted to the
// live-resolved admin. Targeting the wallet itself is forbidden so this
// escape hatch cannot re-enter the engine. The callee's raw failure is
// surfaced unmodified.
func (w *Wallet) AdminExecute(caller, target ethcommon.Address, value *big.Int, payload []byte) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet: not configured")
	}
	if err := w.guard.Enter(); err != nil {
		return nil, err
	}
	defer w.guard.Exit()
	if err := w.requireAdmin(caller); err != nil {
		return nil, err
	}
	if target == w.address {
		return nil, ErrSelfCallForbidden
	}
	if w.invoker == nil {
		return nil, fmt.Errorf("wallet: invoker not configured")
	}
	return w.invoker.Call(target, safeBig(value), payload)
}

func safeTransfer(token ERC20, to ethcommon.Address, amount *big.Int) error {
	ok, err := token.Transfer(to, amount)
	if err != nil || !ok {
		return ErrTokenTransferFailed
	}
	return nil
}

func safeApprove(token ERC20, spender ethcommon.Address, amount *big.Int) error {
	ok, err := token.Approve(spender, amount)
	if err != nil || !ok {
		return ErrTokenApproveFailed
	}
	return nil
}
