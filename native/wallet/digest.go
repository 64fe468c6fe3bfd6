package wallet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// operationDigest computes the canonical structured digest of an operation:
// a keccak over the packed operation fields, domain-bound to the dispatcher
// address and the current chain id.
func (w *Wallet) operationDigest(op *Operation) ethcommon.Hash {
	if op == nil {
		return ethcommon.Hash{}
	}
	packed := make([]byte, 0, 352)
	packed = append(packed, op.Sender.Bytes()...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.Nonce)).Bytes()...)
	packed = append(packed, ethcrypto.Keccak256(op.InitPayload)...)
	packed = append(packed, ethcrypto.Keccak256(op.CallPayload)...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.CallGasLimit)).Bytes()...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.VerificationGasLimit)).Bytes()...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.PreVerificationGas)).Bytes()...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.MaxFeePerGas)).Bytes()...)
	packed = append(packed, ethcommon.BigToHash(safeBig(op.MaxPriorityFeePerGas)).Bytes()...)
	packed = append(packed, ethcrypto.Keccak256(op.SponsorPayload)...)
	inner := ethcrypto.Keccak256(packed)

	domain := make([]byte, 0, 96)
	domain = append(domain, inner...)
	domain = append(domain, ethcommon.BytesToHash(w.dispatcher.Bytes()).Bytes()...)
	domain = append(domain, ethcommon.BigToHash(w.chainID).Bytes()...)
	return ethcommon.BytesToHash(ethcrypto.Keccak256(domain))
}

// legacyDigest recomputes the personal-message digest of the dispatcher
// supplied seed. The fallback path's security rests entirely on the
// dispatcher providing the seed it hashed itself.
func legacyDigest(seed ethcommon.Hash) ethcommon.Hash {
	return ethcommon.BytesToHash(accounts.TextHash(seed.Bytes()))
}

// recoverSigner recovers the signing address from a 65-byte signature over
// digest. Malformed signatures yield ok=false rather than an error so the
// authorization engine can report a coded rejection.
func recoverSigner(digest ethcommon.Hash, signature []byte) (ethcommon.Address, bool) {
	if len(signature) != ethcrypto.SignatureLength {
		return ethcommon.Address{}, false
	}
	sig := make([]byte, ethcrypto.SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return ethcommon.Address{}, false
	}
	return ethcrypto.PubkeyToAddress(*pub), true
}

func safeBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
