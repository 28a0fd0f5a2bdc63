package vault

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/halvard/vault-core/internal/access"
	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/models"
	"github.com/halvard/vault-core/internal/token"
)

// requireRole checks the caller against one or more acceptable roles.
func (v *Vault) requireRole(caller models.Address, roles ...access.Role) error {
	for _, role := range roles {
		if v.roles.HasRole(caller, role) {
			return nil
		}
	}
	return ErrNotAuthorized
}

// RegisterAsset adds a token asset backed by the given transferor. The
// declared precision is taken from the backend itself. Manager only.
func (v *Vault) RegisterAsset(caller models.Address, asset models.AssetID, backend token.Transferor) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	if err := v.requireRole(caller, access.RoleManager); err != nil {
		return err
	}
	if asset == models.NativeAsset {
		return ErrNativeTokenNotAllowed
	}

	// External read before the lock; Decimals is a pure query.
	decimals := backend.Decimals()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.registry.Register(asset, decimals); err != nil {
		return err
	}
	v.tokens[asset] = backend

	logger.Info("Asset registered: asset=%s decimals=%d by=%s", asset, decimals, caller)
	return nil
}

// SetAssetStatus pauses or resumes deposits for one asset. Manager only.
func (v *Vault) SetAssetStatus(caller models.Address, asset models.AssetID, status models.AssetStatus) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	if err := v.requireRole(caller, access.RoleManager); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.registry.SetStatus(asset, status); err != nil {
		return err
	}

	logger.Info("Asset status changed: asset=%s status=%s by=%s", asset, status, caller)
	return nil
}

// SetAggregateCap replaces the system-wide value ceiling. Admin or manager.
func (v *Vault) SetAggregateCap(caller models.Address, newCap uint64) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	if err := v.requireRole(caller, access.RoleAdmin, access.RoleManager); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.limits.SetAggregateCap(newCap, v.aggregate); err != nil {
		return err
	}

	logger.Info("Aggregate cap set to %d by %s", newCap, caller)
	return nil
}

// SetWithdrawalCap replaces the per-withdrawal value ceiling. Admin or manager.
func (v *Vault) SetWithdrawalCap(caller models.Address, newCap uint64) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	if err := v.requireRole(caller, access.RoleAdmin, access.RoleManager); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.limits.SetWithdrawalCap(newCap); err != nil {
		return err
	}

	logger.Info("Withdrawal cap set to %d by %s", newCap, caller)
	return nil
}

// Pause halts deposits and withdrawals. Admin only.
func (v *Vault) Pause(caller models.Address) error {
	if err := v.requireRole(caller, access.RoleAdmin); err != nil {
		return err
	}
	v.breaker.Pause()
	logger.Warn("System paused by %s", caller)
	return nil
}

// Unpause resumes deposits and withdrawals. Admin only.
func (v *Vault) Unpause(caller models.Address) error {
	if err := v.requireRole(caller, access.RoleAdmin); err != nil {
		return err
	}
	v.breaker.Unpause()
	logger.Info("System unpaused by %s", caller)
	return nil
}

// GrantRole gives a principal a role. Admin only.
func (v *Vault) GrantRole(caller, principal models.Address, role access.Role) error {
	if err := v.requireRole(caller, access.RoleAdmin); err != nil {
		return err
	}
	v.roles.Grant(principal, role)
	logger.Info("Role %s granted to %s by %s", role, principal, caller)
	return nil
}

// EmergencyWithdraw moves custodied funds directly to a recipient, bypassing
// the ledger. User balances and the aggregate are deliberately untouched:
// this is the recovery path for a wedged system, and reconciliation is an
// operational follow-up. Admin only, works while paused.
func (v *Vault) EmergencyWithdraw(caller models.Address, asset models.AssetID, amount *uint256.Int, recipient models.Address) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	if err := v.requireRole(caller, access.RoleAdmin); err != nil {
		return err
	}
	if recipient == models.ZeroAddress {
		return ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	backend := v.native
	if asset != models.NativeAsset {
		tok, ok := v.tokens[asset]
		if !ok {
			return ErrInsufficientBalance
		}
		backend = tok
	}

	if backend.BalanceOf(v.addr).Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := backend.TransferOut(recipient, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	logger.Warn("Emergency withdrawal: asset=%s amount=%s recipient=%s by=%s", asset, amount, recipient, caller)
	return nil
}
