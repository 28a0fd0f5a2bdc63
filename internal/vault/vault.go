// Package vault implements the custodial ledger: per-user per-asset raw
// balances, a global normalized aggregate, and the deposit/withdraw entry
// points that tie together the registry, limits, oracle gateway, circuit
// breaker, and asset transfer backends.
//
// Every mutating entry point follows the same discipline: claim the
// reentrancy guard first, take the state lock, run every precondition, apply
// bookkeeping effects, and only then perform the external transfer. When the
// transfer is the last step and fails, the bookkeeping is rolled back; when
// custody must be taken up front (native deposits), a later internal failure
// refunds it. Either way a failed operation leaves no partial state behind.
package vault

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/halvard/vault-core/internal/access"
	"github.com/halvard/vault-core/internal/config"
	"github.com/halvard/vault-core/internal/convert"
	"github.com/halvard/vault-core/internal/guard"
	"github.com/halvard/vault-core/internal/limits"
	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/models"
	"github.com/halvard/vault-core/internal/oracle"
	"github.com/halvard/vault-core/internal/registry"
	"github.com/halvard/vault-core/internal/token"
)

// Vault is the custodial ledger service.
type Vault struct {
	mu    sync.RWMutex
	guard guard.Guard

	addr      models.Address
	registry  *registry.Registry
	limits    *limits.Controller
	gateway   *oracle.Gateway
	roles     access.RoleGranter
	breaker   access.Switch
	native    token.Transferor
	tokens    map[models.AssetID]token.Transferor
	balances  map[models.Address]map[models.AssetID]*uint256.Int
	aggregate uint64
}

// New creates a vault from configuration and its injected collaborators.
// The native backend custodies the base currency under cfg.VaultAddress.
func New(cfg *config.Config, gateway *oracle.Gateway, roles access.RoleGranter, breaker access.Switch, native token.Transferor) *Vault {
	return &Vault{
		addr:     models.Address(cfg.VaultAddress),
		registry: registry.New(cfg.MaxAssets),
		limits:   limits.New(cfg.AggregateCap, cfg.WithdrawalCap),
		gateway:  gateway,
		roles:    roles,
		breaker:  breaker,
		native:   native,
		tokens:   make(map[models.AssetID]token.Transferor),
		balances: make(map[models.Address]map[models.AssetID]*uint256.Int),
	}
}

// Address returns the vault's custody address.
func (v *Vault) Address() models.Address {
	return v.addr
}

// DepositNative accepts base-currency value from the caller.
//
// Custody is taken before bookkeeping, mirroring how value arrives attached
// to a call: the transfer is the receipt. If bookkeeping fails afterwards the
// amount is refunded, so the failed operation nets to nothing.
func (v *Vault) DepositNative(caller models.Address, amount *uint256.Int) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.breaker.IsPaused() {
		return ErrHalted
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	entry, _ := v.registry.Get(models.NativeAsset)
	if entry.Status == models.AssetPaused {
		return registry.ErrTokenPaused
	}

	price, err := v.gateway.NativePrice()
	if err != nil {
		return err
	}
	value, err := convert.ToNormalized(amount, entry.Decimals, price)
	if err != nil {
		return err
	}
	if value == 0 {
		return ErrAmountTooSmall
	}
	if err := v.checkAggregateRoom(value); err != nil {
		return err
	}

	if err := v.native.TransferIn(caller, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := v.credit(caller, models.NativeAsset, amount, value, entry); err != nil {
		if refundErr := v.native.TransferOut(caller, amount); refundErr != nil {
			logger.Error("Refund of failed native deposit for %s failed: %v", caller, refundErr)
			return ErrLedgerInconsistent
		}
		return err
	}

	logger.Info("Native deposit: user=%s amount=%s value=%d price=%d", caller, amount, value, price)
	return v.verifyConsistency()
}

// DepositToken accepts token value from the caller. The external transfer is
// the final step; on failure the bookkeeping is rolled back.
func (v *Vault) DepositToken(caller models.Address, asset models.AssetID, amount *uint256.Int) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.breaker.IsPaused() {
		return ErrHalted
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	if asset == models.NativeAsset {
		return ErrNativeTokenNotAllowed
	}

	entry, ok := v.registry.Get(asset)
	if !ok {
		return registry.ErrTokenNotSupported
	}
	if entry.Status == models.AssetPaused {
		return registry.ErrTokenPaused
	}

	price, err := v.gateway.PriceOf(asset)
	if err != nil {
		return err
	}
	value, err := convert.ToNormalized(amount, entry.Decimals, price)
	if err != nil {
		return err
	}
	if value == 0 {
		return ErrAmountTooSmall
	}
	if err := v.checkAggregateRoom(value); err != nil {
		return err
	}

	if err := v.credit(caller, asset, amount, value, entry); err != nil {
		return err
	}

	if err := v.tokens[asset].TransferIn(caller, amount); err != nil {
		v.uncredit(caller, asset, amount, value, entry)
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	logger.Info("Token deposit: user=%s asset=%s amount=%s value=%d", caller, asset, amount, value)
	return v.verifyConsistency()
}

// WithdrawNative returns base-currency value to the caller.
func (v *Vault) WithdrawNative(caller models.Address, amount *uint256.Int) error {
	return v.withdraw(caller, models.NativeAsset, amount)
}

// WithdrawToken returns token value to the caller. The native asset must go
// through WithdrawNative.
func (v *Vault) WithdrawToken(caller models.Address, asset models.AssetID, amount *uint256.Int) error {
	if asset == models.NativeAsset {
		return ErrNativeTokenNotAllowed
	}
	return v.withdraw(caller, asset, amount)
}

// withdraw is the shared withdrawal path. The balance check runs before the
// support check, so withdrawing an asset the user never held reports an
// insufficient balance even if the asset is unregistered. A Paused status
// never blocks withdrawals.
func (v *Vault) withdraw(caller models.Address, asset models.AssetID, amount *uint256.Int) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	defer v.guard.Exit()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.breaker.IsPaused() {
		return ErrHalted
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	bal := v.balanceLocked(caller, asset)
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}

	entry, ok := v.registry.Get(asset)
	if !ok {
		return registry.ErrTokenNotSupported
	}

	price, err := v.gateway.PriceOf(asset)
	if err != nil {
		return err
	}
	value, err := convert.ToNormalized(amount, entry.Decimals, price)
	if err != nil {
		return err
	}
	if value > v.limits.WithdrawalCap() {
		return ErrWithdrawalLimitExceeded
	}

	if err := v.debit(caller, asset, amount, value, entry); err != nil {
		return err
	}

	backend := v.native
	if asset != models.NativeAsset {
		backend = v.tokens[asset]
	}
	if err := backend.TransferOut(caller, amount); err != nil {
		v.undebit(caller, asset, amount, value, entry)
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	logger.Info("Withdrawal: user=%s asset=%s amount=%s value=%d", caller, asset, amount, value)
	return v.verifyConsistency()
}

// checkAggregateRoom rejects a deposit whose value would push the aggregate
// past the cap. aggregate <= cap always holds, so the subtraction is safe.
func (v *Vault) checkAggregateRoom(value uint64) error {
	if value > v.limits.AggregateCap()-v.aggregate {
		return ErrBankCapExceeded
	}
	return nil
}

// credit applies a deposit's bookkeeping: user balance, asset statistics, and
// the global aggregate. On failure nothing is applied.
func (v *Vault) credit(user models.Address, asset models.AssetID, raw *uint256.Int, value uint64, entry *registry.Entry) error {
	bal := v.balanceLocked(user, asset)
	next := new(uint256.Int)
	if _, overflow := next.AddOverflow(bal, raw); overflow {
		return ErrBalanceOverflow
	}
	if err := entry.RecordDeposit(value); err != nil {
		return err
	}
	v.setBalanceLocked(user, asset, next)
	v.aggregate += value
	return nil
}

// uncredit reverses credit during a deposit rollback.
func (v *Vault) uncredit(user models.Address, asset models.AssetID, raw *uint256.Int, value uint64, entry *registry.Entry) {
	bal := v.balanceLocked(user, asset)
	v.setBalanceLocked(user, asset, new(uint256.Int).Sub(bal, raw))
	entry.UndoDeposit(value)
	v.aggregate -= value
}

// debit applies a withdrawal's bookkeeping. The caller has already verified
// the raw balance covers the amount; the normalized subtraction is checked
// inside RecordWithdrawal and treated as corruption if it fails.
func (v *Vault) debit(user models.Address, asset models.AssetID, raw *uint256.Int, value uint64, entry *registry.Entry) error {
	if err := entry.RecordWithdrawal(value); err != nil {
		logger.Error("Withdrawal bookkeeping rejected for %s/%s: %v", user, asset, err)
		return ErrLedgerInconsistent
	}
	bal := v.balanceLocked(user, asset)
	v.setBalanceLocked(user, asset, new(uint256.Int).Sub(bal, raw))
	v.aggregate -= value
	return nil
}

// undebit reverses debit during a withdrawal rollback.
func (v *Vault) undebit(user models.Address, asset models.AssetID, raw *uint256.Int, value uint64, entry *registry.Entry) {
	bal := v.balanceLocked(user, asset)
	v.setBalanceLocked(user, asset, new(uint256.Int).Add(bal, raw))
	entry.UndoWithdrawal(value)
	v.aggregate += value
}

// verifyConsistency checks that the per-asset cumulative values still sum to
// the global aggregate. Runs after every successful mutation; a violation is
// a hard failure.
func (v *Vault) verifyConsistency() error {
	if sum := v.registry.SumCumulative(); sum != v.aggregate {
		logger.Error("Ledger inconsistency: aggregate=%d sum=%d", v.aggregate, sum)
		return ErrLedgerInconsistent
	}
	return nil
}

// balanceLocked reads a balance copy; the caller holds the lock.
func (v *Vault) balanceLocked(user models.Address, asset models.AssetID) *uint256.Int {
	if byAsset, ok := v.balances[user]; ok {
		if bal, ok := byAsset[asset]; ok {
			return new(uint256.Int).Set(bal)
		}
	}
	return new(uint256.Int)
}

// setBalanceLocked stores a balance; the caller holds the lock.
func (v *Vault) setBalanceLocked(user models.Address, asset models.AssetID, bal *uint256.Int) {
	if v.balances[user] == nil {
		v.balances[user] = make(map[models.AssetID]*uint256.Int)
	}
	v.balances[user][asset] = bal
}
