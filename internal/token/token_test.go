package token

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/vault-core/internal/models"
)

const custody = models.Address("0xvault")

func TestTransferRoundTrip(t *testing.T) {
	f := NewFungible("USDC", 6, custody)
	f.Mint("0xalice", uint256.NewInt(1_000))

	require.NoError(t, f.TransferIn("0xalice", uint256.NewInt(400)))
	assert.Equal(t, uint256.NewInt(400), f.BalanceOf(custody))
	assert.Equal(t, uint256.NewInt(600), f.BalanceOf("0xalice"))

	require.NoError(t, f.TransferOut("0xbob", uint256.NewInt(150)))
	assert.Equal(t, uint256.NewInt(250), f.BalanceOf(custody))
	assert.Equal(t, uint256.NewInt(150), f.BalanceOf("0xbob"))
}

func TestTransferInsufficientFunds(t *testing.T) {
	f := NewFungible("USDC", 6, custody)
	f.Mint("0xalice", uint256.NewInt(10))

	require.ErrorIs(t, f.TransferIn("0xalice", uint256.NewInt(11)), ErrInsufficientFunds)
	require.ErrorIs(t, f.TransferIn("0xnobody", uint256.NewInt(1)), ErrInsufficientFunds)
	assert.True(t, f.BalanceOf(custody).IsZero())
}

func TestFailNextTransferIsOneShot(t *testing.T) {
	f := NewFungible("USDC", 6, custody)
	f.Mint("0xalice", uint256.NewInt(100))

	armed := errors.New("reverted")
	f.FailNextTransfer(armed)

	require.ErrorIs(t, f.TransferIn("0xalice", uint256.NewInt(50)), armed)
	require.NoError(t, f.TransferIn("0xalice", uint256.NewInt(50)))
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	f := NewFungible("USDC", 6, custody)
	f.Mint("0xalice", uint256.NewInt(100))

	bal := f.BalanceOf("0xalice")
	bal.SetUint64(0)
	assert.Equal(t, uint256.NewInt(100), f.BalanceOf("0xalice"))
}

func TestNativeBackend(t *testing.T) {
	n := NewNative(custody)
	assert.Equal(t, uint8(18), n.Decimals())
}
