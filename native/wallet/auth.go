package wallet

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"aawallet/observability/metrics"
)

// sigVerifier is one strategy in the verification chain. It reports whether
// the operation's signature resolves to the supplied expected signer.
type sigVerifier func(op *Operation, seed ethcommon.Hash, expected ethcommon.Address) bool

func (w *Wallet) canonicalVerifier(op *Operation, _ ethcommon.Hash, expected ethcommon.Address) bool {
	recovered, ok := recoverSigner(w.operationDigest(op), op.Signature)
	return ok && recovered == expected
}

func (w *Wallet) legacyVerifier(op *Operation, seed ethcommon.Hash, expected ethcommon.Address) bool {
	recovered, ok := recoverSigner(legacyDigest(seed), op.Signature)
	return ok && recovered == expected
}

// verifierChain builds the ordered list of verification strategies. The
// canonical structured-digest path always runs first; the legacy
// personal-message path is appended only while the migration flag is set.
func (w *Wallet) verifierChain(legacyEnabled bool) []sigVerifier {
	chain := []sigVerifier{w.canonicalVerifier}
	if legacyEnabled {
		chain = append(chain, w.legacyVerifier)
	}
	return chain
}

// ValidateOperation verifies that the operation was approved by the wallet
// owner. Only the dispatcher may call it. A bad or malformed signature is
// reported as OutcomeRejected, never as an error, so that simulation
// environments receive a return-coded result. The prefund handler runs at
// the tail regardless of the outcome.
func (w *Wallet) ValidateOperation(caller ethcommon.Address, op *Operation, seed ethcommon.Hash, missingFunds *big.Int) (ValidationOutcome, error) {
	if w == nil {
		return OutcomeRejected, fmt.Errorf("wallet: not configured")
	}
	if err := w.requireDispatcher(caller); err != nil {
		return OutcomeRejected, err
	}
	if op == nil {
		return OutcomeRejected, fmt.Errorf("wallet: operation required")
	}
	params, err := w.state.Params()
	if err != nil {
		return OutcomeRejected, err
	}

	outcome := OutcomeRejected
	for _, verify := range w.verifierChain(params.AllowLegacySignatureFallback) {
		if verify(op, seed, w.owner) {
			outcome = OutcomeAccepted
			break
		}
	}

	w.payPrefund(missingFunds)

	metrics.Wallet().ObserveValidation(outcome.String())
	w.emit(NewOperationValidatedEvent(op.Sender, outcome))
	return outcome, nil
}
