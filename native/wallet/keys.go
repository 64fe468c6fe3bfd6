package wallet

import (
	"bytes"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var (
	walletInitKey       = []byte("wallet/init")
	walletParamsKey     = []byte("wallet/params")
	walletTokenPrefix   = []byte("wallet/token/")
	walletPairFeePrefix = []byte("wallet/pairfee/")
	walletSlipPrefix    = []byte("wallet/slippage/")
	walletSlipIndexKey  = []byte("wallet/slippageidx")
)

func tokenConfigKey(token ethcommon.Address) []byte {
	buf := make([]byte, len(walletTokenPrefix)+ethcommon.AddressLength)
	copy(buf, walletTokenPrefix)
	copy(buf[len(walletTokenPrefix):], token.Bytes())
	return buf
}

func tokenSlippageKey(token ethcommon.Address) []byte {
	buf := make([]byte, len(walletSlipPrefix)+ethcommon.AddressLength)
	copy(buf, walletSlipPrefix)
	copy(buf[len(walletSlipPrefix):], token.Bytes())
	return buf
}

// pairFeeKey derives the order-independent slot for a token pair. The two
// addresses are sorted before hashing so (A,B) and (B,A) resolve identically.
func pairFeeKey(a, b ethcommon.Address) []byte {
	lo, hi := a, b
	if bytes.Compare(lo.Bytes(), hi.Bytes()) > 0 {
		lo, hi = hi, lo
	}
	digest := ethcrypto.Keccak256(lo.Bytes(), hi.Bytes())
	buf := make([]byte, len(walletPairFeePrefix)+len(digest))
	copy(buf, walletPairFeePrefix)
	copy(buf[len(walletPairFeePrefix):], digest)
	return buf
}
