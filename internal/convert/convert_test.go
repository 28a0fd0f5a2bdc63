package convert

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestToNormalizedStablePeg(t *testing.T) {
	// 1000 whole units of a 6-decimal asset at a $1.00 peg (1e8)
	// must normalize to exactly $1000 in 6-decimal units.
	raw := uint256.NewInt(1000 * 1_000_000)
	value, err := ToNormalized(raw, 6, 100_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(1000*1_000_000), value)
}

func TestToNormalizedNativeWei(t *testing.T) {
	// 1 wei at $3000 floors to zero: 1 * 3000e8 / 10^20 = 0.
	value, err := ToNormalized(uint256.NewInt(1), 18, 3000*100_000_000)
	require.NoError(t, err)
	require.Zero(t, value)
}

func TestToNormalizedWholeNative(t *testing.T) {
	// 1 native unit (1e18) at $3000 is $3000.
	raw := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))
	value, err := ToNormalized(raw, 18, 3000*100_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(3000*1_000_000), value)
}

func TestToNormalizedFloors(t *testing.T) {
	// 1.5 units of a 1-decimal asset at $0.33 = $0.495 → 495000 micro-units,
	// then a case that actually truncates: 1 smallest unit of an 18-decimal
	// asset at $1 is below one micro-unit and floors away.
	value, err := ToNormalized(uint256.NewInt(15), 1, 33_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(495_000), value)

	value, err = ToNormalized(uint256.NewInt(999_999), 18, 100_000_000)
	require.NoError(t, err)
	require.Zero(t, value)
}

func TestToNormalizedOverflow(t *testing.T) {
	// A raw amount large enough that the normalized value exceeds uint64.
	raw := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(40))
	_, err := ToNormalized(raw, 18, 100_000_000)
	require.ErrorIs(t, err, ErrValueOverflow)
}

func TestToNormalizedWideIntermediate(t *testing.T) {
	// The numerator exceeds 64 bits but the quotient fits: full native supply
	// sized amounts must not lose precision in the intermediate product.
	raw := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(26)) // 1e8 native units
	value, err := ToNormalized(raw, 18, 3000*100_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(3000)*100_000_000*1_000_000, value)
}
