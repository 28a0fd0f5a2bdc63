// Package token defines the asset-transfer collaborator the vault consumes
// and in-memory implementations backing tests and the demo scenario.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/halvard/vault-core/internal/models"
)

// ErrInsufficientFunds is returned by the in-memory backends when a transfer
// exceeds the source balance.
var ErrInsufficientFunds = errors.New("token: insufficient funds for transfer")

// Transferor moves amounts of one asset between external holders and the
// vault's custody account. Implementations may fail; return values must be
// checked, never assumed.
type Transferor interface {
	// TransferIn moves amount from the holder into vault custody.
	TransferIn(from models.Address, amount *uint256.Int) error
	// TransferOut moves amount from vault custody to the holder.
	TransferOut(to models.Address, amount *uint256.Int) error
	// BalanceOf reports the holder's raw balance, vault custody included.
	BalanceOf(holder models.Address) *uint256.Int
	// Decimals reports the asset's declared precision.
	Decimals() uint8
}

// Fungible is an in-memory fungible asset ledger bound to one vault custody
// account. It doubles for an on-chain token contract (and, at 18 decimals,
// for native currency custody).
type Fungible struct {
	mu       sync.Mutex
	symbol   string
	decimals uint8
	vault    models.Address
	balances map[models.Address]*uint256.Int

	failNext error // armed by FailNextTransfer
}

// NewFungible creates an asset ledger with the given symbol and precision,
// custody held under the vault address.
func NewFungible(symbol string, decimals uint8, vault models.Address) *Fungible {
	return &Fungible{
		symbol:   symbol,
		decimals: decimals,
		vault:    vault,
		balances: make(map[models.Address]*uint256.Int),
	}
}

// NewNative creates the native-currency backend: 18 decimals, fixed symbol.
func NewNative(vault models.Address) *Fungible {
	return NewFungible("NATIVE", 18, vault)
}

// Mint credits a holder out of thin air. Test and demo seeding only.
func (f *Fungible) Mint(holder models.Address, amount *uint256.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credit(holder, amount)
}

// FailNextTransfer arms a one-shot failure for the next transfer call,
// letting tests exercise the rollback paths.
func (f *Fungible) FailNextTransfer(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = err
}

// TransferIn implements Transferor.
func (f *Fungible) TransferIn(from models.Address, amount *uint256.Int) error {
	return f.move(from, f.vault, amount)
}

// TransferOut implements Transferor.
func (f *Fungible) TransferOut(to models.Address, amount *uint256.Int) error {
	return f.move(f.vault, to, amount)
}

// BalanceOf implements Transferor.
func (f *Fungible) BalanceOf(holder models.Address) *uint256.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bal, ok := f.balances[holder]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// Decimals implements Transferor.
func (f *Fungible) Decimals() uint8 {
	return f.decimals
}

func (f *Fungible) move(from, to models.Address, amount *uint256.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}

	bal, ok := f.balances[from]
	if !ok || bal.Lt(amount) {
		return fmt.Errorf("%w: %s holds less than requested %s", ErrInsufficientFunds, from, f.symbol)
	}

	bal.Sub(bal, amount)
	f.credit(to, amount)
	return nil
}

func (f *Fungible) credit(holder models.Address, amount *uint256.Int) {
	if bal, ok := f.balances[holder]; ok {
		bal.Add(bal, amount)
		return
	}
	f.balances[holder] = new(uint256.Int).Set(amount)
}
