package vault

import (
	"github.com/holiman/uint256"

	"github.com/halvard/vault-core/internal/convert"
	"github.com/halvard/vault-core/internal/models"
	"github.com/halvard/vault-core/internal/registry"
)

// Balance returns the user's raw balance in one asset. A user who never
// deposited reads zero, indistinguishable from a fully withdrawn balance.
func (v *Vault) Balance(user models.Address, asset models.AssetID) *uint256.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.balanceLocked(user, asset)
}

// NormalizedBalance values the user's balance in one asset at the current
// price. Native valuation can fail on a stale or implausible feed.
func (v *Vault) NormalizedBalance(user models.Address, asset models.AssetID) (uint64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	entry, ok := v.registry.Get(asset)
	if !ok {
		return 0, registry.ErrTokenNotSupported
	}
	price, err := v.gateway.PriceOf(asset)
	if err != nil {
		return 0, err
	}
	return convert.ToNormalized(v.balanceLocked(user, asset), entry.Decimals, price)
}

// AllBalances returns the user's raw balance in every registered asset, in
// registration order with the native asset first.
func (v *Vault) AllBalances(user models.Address) []models.BalanceView {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := v.registry.IDs()
	out := make([]models.BalanceView, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.BalanceView{
			Asset:   id,
			Balance: v.balanceLocked(user, id),
		})
	}
	return out
}

// AssetInfo returns the registry view of one asset.
func (v *Vault) AssetInfo(asset models.AssetID) (models.AssetInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.registry.Info(asset)
	if !ok {
		return models.AssetInfo{}, registry.ErrTokenNotSupported
	}
	return info, nil
}

// SupportedAssets returns the registered identifiers, native first.
func (v *Vault) SupportedAssets() []models.AssetID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.registry.IDs()
}

// TotalNormalizedValue returns the global aggregate in normalized units.
func (v *Vault) TotalNormalizedValue() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.aggregate
}

// Caps returns the current aggregate and per-withdrawal ceilings.
func (v *Vault) Caps() (aggregate, withdrawal uint64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.limits.AggregateCap(), v.limits.WithdrawalCap()
}

// NativePrice exposes the validated feed price for monitoring.
func (v *Vault) NativePrice() (uint64, error) {
	return v.gateway.NativePrice()
}

// IsPaused reports the circuit breaker state.
func (v *Vault) IsPaused() bool {
	return v.breaker.IsPaused()
}
