// Package convert maps raw asset amounts into the normalized accounting unit.
//
// All limit checks and aggregation in the vault are expressed in a synthetic
// 6-decimal USD unit. Oracle prices arrive as 8-decimal fixed point, so a raw
// amount in an asset's own precision normalizes as
//
//	floor(raw * price / 10^(assetDecimals + 8 - 6))
//
// Truncation is intentional: it can never overstate value, so a deposit is
// never recorded as larger than what was received. A sufficiently small raw
// amount normalizes to exactly zero; rejecting that case is the caller's job.
package convert

import (
	"errors"

	"github.com/holiman/uint256"
)

const (
	// NormalizedDecimals is the precision of the accounting unit.
	NormalizedDecimals = 6
	// PriceDecimals is the fixed precision of oracle prices.
	PriceDecimals = 8
)

// ErrValueOverflow is returned when a normalized value does not fit uint64.
// No realistic holding reaches it (the ceiling is ~1.8e13 USD); refusing is
// safer than truncating.
var ErrValueOverflow = errors.New("convert: normalized value overflows uint64")

var ten = uint256.NewInt(10)

// ToNormalized converts a raw amount at the given asset precision and price
// into normalized units. Pure. assetDecimals must be in 1..18 (validated at
// asset registration); the multiplication uses a 256-bit intermediate.
func ToNormalized(raw *uint256.Int, assetDecimals uint8, price uint64) (uint64, error) {
	num := new(uint256.Int)
	if _, overflow := num.MulOverflow(raw, uint256.NewInt(price)); overflow {
		return 0, ErrValueOverflow
	}

	exp := uint64(assetDecimals) + PriceDecimals - NormalizedDecimals
	den := new(uint256.Int).Exp(ten, uint256.NewInt(exp))

	q := num.Div(num, den)
	if !q.IsUint64() {
		return 0, ErrValueOverflow
	}
	return q.Uint64(), nil
}
