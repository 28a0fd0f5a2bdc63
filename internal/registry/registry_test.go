package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/vault-core/internal/models"
)

func TestNativePreRegistered(t *testing.T) {
	r := New(4)

	entry, ok := r.Get(models.NativeAsset)
	require.True(t, ok)
	assert.True(t, entry.Supported)
	assert.Equal(t, NativeDecimals, entry.Decimals)
	assert.Equal(t, models.AssetActive, entry.Status)
	assert.Equal(t, []models.AssetID{models.NativeAsset}, r.IDs())
}

func TestRegisterValidation(t *testing.T) {
	r := New(3)

	require.NoError(t, r.Register("USDC", 6))
	require.ErrorIs(t, r.Register("USDC", 6), ErrTokenAlreadySupported)
	require.ErrorIs(t, r.Register("BAD", 0), ErrInvalidDecimals)
	require.ErrorIs(t, r.Register("BAD", 19), ErrInvalidDecimals)

	// Native occupies one slot, so a limit of 3 leaves room for one more.
	require.NoError(t, r.Register("DAI", 18))
	require.ErrorIs(t, r.Register("WBTC", 8), ErrMaxTokensReached)
	assert.Equal(t, 3, r.Count())
}

func TestSetStatus(t *testing.T) {
	r := New(4)
	require.NoError(t, r.Register("USDC", 6))

	require.NoError(t, r.SetStatus("USDC", models.AssetPaused))
	entry, _ := r.Get("USDC")
	assert.Equal(t, models.AssetPaused, entry.Status)

	// No-op transition is allowed.
	require.NoError(t, r.SetStatus("USDC", models.AssetPaused))
	require.ErrorIs(t, r.SetStatus("DOGE", models.AssetActive), ErrTokenNotSupported)
}

func TestStatisticsRoundTrip(t *testing.T) {
	r := New(4)
	require.NoError(t, r.Register("USDC", 6))
	entry, _ := r.Get("USDC")

	require.NoError(t, entry.RecordDeposit(1_000))
	require.NoError(t, entry.RecordDeposit(500))
	assert.Equal(t, uint64(1_500), entry.CumulativeValue)
	assert.Equal(t, uint64(2), entry.DepositCount)

	require.NoError(t, entry.RecordWithdrawal(600))
	assert.Equal(t, uint64(900), entry.CumulativeValue)
	assert.Equal(t, uint64(1), entry.WithdrawalCount)

	// Withdrawing more value than was ever recorded is corruption.
	require.Error(t, entry.RecordWithdrawal(10_000))

	entry.UndoWithdrawal(600)
	entry.UndoDeposit(500)
	assert.Equal(t, uint64(1_000), entry.CumulativeValue)
	assert.Equal(t, uint64(1), entry.DepositCount)
	assert.Zero(t, entry.WithdrawalCount)
}

func TestSumCumulative(t *testing.T) {
	r := New(4)
	require.NoError(t, r.Register("USDC", 6))
	require.NoError(t, r.Register("DAI", 18))

	native, _ := r.Get(models.NativeAsset)
	usdc, _ := r.Get("USDC")
	require.NoError(t, native.RecordDeposit(3_000_000_000))
	require.NoError(t, usdc.RecordDeposit(500_000_000))

	assert.Equal(t, uint64(3_500_000_000), r.SumCumulative())
}

func TestInfo(t *testing.T) {
	r := New(4)
	require.NoError(t, r.Register("USDC", 6))

	info, ok := r.Info("USDC")
	require.True(t, ok)
	assert.Equal(t, models.AssetID("USDC"), info.ID)
	assert.Equal(t, uint8(6), info.Decimals)

	_, ok = r.Info("DOGE")
	assert.False(t, ok)
}
