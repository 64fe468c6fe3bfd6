package wallet

import "math/big"

// payPrefund forwards the requested native funds to the dispatcher. The send
// result is deliberately ignored: the dispatcher independently re-verifies it
// received sufficient funds, and treating a failed send as fatal would break
// the dispatcher's dry-run simulation path. Fire and forget, not an
// oversight.
func (w *Wallet) payPrefund(missingFunds *big.Int) {
	if w == nil || w.native == nil {
		return
	}
	if missingFunds == nil || missingFunds.Sign() <= 0 {
		return
	}
	amount := new(big.Int).Set(missingFunds)
	_ = w.native.Send(w.dispatcher, amount)
	w.emit(NewPrefundForwardedEvent(w.dispatcher, amount))
}
