package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	policy, err := Load(writePolicy(t, ""))
	require.NoError(t, err)
	require.Equal(t, "50", policy.FeeInCents)
	require.Equal(t, "100", policy.MaxFeeInCents)
	require.Equal(t, uint32(500), policy.PoolFeeLow)
	require.Equal(t, uint32(3000), policy.PoolFeeMedium)
	require.Equal(t, uint32(10000), policy.PoolFeeHigh)
	require.Equal(t, uint64(500), policy.SlippageMaxBps)
	require.Equal(t, uint64(1800), policy.MaxDeadlineSeconds)
	require.Equal(t, uint64(3600), policy.PriceFreshnessSeconds)
	require.Equal(t, uint8(8), policy.PriceFeedPrecisionDigits)
	require.False(t, policy.AllowLegacySignatureFallback)
}

func TestLoadOverrides(t *testing.T) {
	policy, err := Load(writePolicy(t, `
FeeInCents = "25"
MaxFeeInCents = "75"
PoolFeeLow = 100
SlippageMaxBps = 250
AllowLegacySignatureFallback = true
`))
	require.NoError(t, err)
	require.Equal(t, "25", policy.FeeInCents)
	require.Equal(t, "75", policy.MaxFeeInCents)
	require.Equal(t, uint32(100), policy.PoolFeeLow)
	require.Equal(t, uint64(250), policy.SlippageMaxBps)
	require.True(t, policy.AllowLegacySignatureFallback)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestParamsConversion(t *testing.T) {
	policy := WalletPolicy{}.Normalise()
	params, err := policy.Params()
	require.NoError(t, err)
	require.Zero(t, params.FeeInCents.Cmp(big.NewInt(50)))
	require.Zero(t, params.MaxFeeInCents.Cmp(big.NewInt(100)))
	require.Equal(t, uint32(3000), params.PoolFeeMedium)
}

func TestParamsConversionLargeFee(t *testing.T) {
	policy := WalletPolicy{FeeInCents: "123456789012345678901234567890"}.Normalise()
	params, err := policy.Params()
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.Zero(t, params.FeeInCents.Cmp(want))
}

func TestParamsConversionRejectsBadFee(t *testing.T) {
	for _, bad := range []string{"abc", "-1", "1.5", ""} {
		policy := WalletPolicy{FeeInCents: bad, MaxFeeInCents: "100"}
		_, err := policy.Params()
		require.Errorf(t, err, "fee %q", bad)
	}
}
