// Package registry tracks which assets the vault supports, their precision,
// operational status, and lifetime statistics.
package registry

import (
	"errors"

	"github.com/halvard/vault-core/internal/models"
)

var (
	ErrTokenNotSupported    = errors.New("registry: asset is not registered")
	ErrTokenAlreadySupported = errors.New("registry: asset is already registered")
	ErrMaxTokensReached     = errors.New("registry: maximum registered assets reached")
	ErrInvalidDecimals      = errors.New("registry: asset decimals must be in 1..18")
	ErrTokenPaused          = errors.New("registry: asset is paused for deposits")
	ErrCounterOverflow      = errors.New("registry: lifetime counter would wrap")
)

// NativeDecimals is the fixed precision of the native asset.
const NativeDecimals uint8 = 18

// Entry holds everything the vault knows about one asset. Supported is never
// unset once true: assets are paused, not removed.
type Entry struct {
	Supported       bool
	Decimals        uint8
	Status          models.AssetStatus
	CumulativeValue uint64
	DepositCount    uint64
	WithdrawalCount uint64
}

// Registry is the asset table plus the insertion-ordered identifier list.
// Not safe for concurrent use on its own; the vault serializes access.
type Registry struct {
	maxAssets int
	entries   map[models.AssetID]*Entry
	order     []models.AssetID
}

// New creates a registry with the native asset pre-registered first.
func New(maxAssets int) *Registry {
	r := &Registry{
		maxAssets: maxAssets,
		entries:   make(map[models.AssetID]*Entry),
	}
	r.entries[models.NativeAsset] = &Entry{
		Supported: true,
		Decimals:  NativeDecimals,
		Status:    models.AssetActive,
	}
	r.order = append(r.order, models.NativeAsset)
	return r
}

// Register adds a token asset with the given declared precision.
func (r *Registry) Register(id models.AssetID, decimals uint8) error {
	if _, exists := r.entries[id]; exists {
		return ErrTokenAlreadySupported
	}
	if len(r.order) >= r.maxAssets {
		return ErrMaxTokensReached
	}
	if decimals == 0 || decimals > 18 {
		return ErrInvalidDecimals
	}

	r.entries[id] = &Entry{
		Supported: true,
		Decimals:  decimals,
		Status:    models.AssetActive,
	}
	r.order = append(r.order, id)
	return nil
}

// SetStatus overwrites an asset's status. No-op transitions are allowed.
func (r *Registry) SetStatus(id models.AssetID, status models.AssetStatus) error {
	entry, ok := r.entries[id]
	if !ok {
		return ErrTokenNotSupported
	}
	entry.Status = status
	return nil
}

// Get returns the entry for an asset, or false if unregistered.
func (r *Registry) Get(id models.AssetID) (*Entry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

// IDs returns the registered identifiers in insertion order, native first.
func (r *Registry) IDs() []models.AssetID {
	out := make([]models.AssetID, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered assets, native included.
func (r *Registry) Count() int {
	return len(r.order)
}

// SumCumulative adds up every asset's cumulative value. The vault checks it
// against the global aggregate after each mutation.
func (r *Registry) SumCumulative() uint64 {
	var sum uint64
	for _, id := range r.order {
		sum += r.entries[id].CumulativeValue
	}
	return sum
}

// Info builds the read-only view of one entry.
func (r *Registry) Info(id models.AssetID) (models.AssetInfo, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return models.AssetInfo{}, false
	}
	return models.AssetInfo{
		ID:              id,
		Supported:       entry.Supported,
		Decimals:        entry.Decimals,
		Status:          entry.Status,
		CumulativeValue: entry.CumulativeValue,
		DepositCount:    entry.DepositCount,
		WithdrawalCount: entry.WithdrawalCount,
	}, true
}

// RecordDeposit applies a deposit's statistics to the entry.
func (e *Entry) RecordDeposit(value uint64) error {
	if e.DepositCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	e.CumulativeValue += value
	e.DepositCount++
	return nil
}

// UndoDeposit reverses RecordDeposit during a rollback.
func (e *Entry) UndoDeposit(value uint64) {
	e.CumulativeValue -= value
	e.DepositCount--
}

// RecordWithdrawal applies a withdrawal's statistics to the entry. The value
// subtraction is checked: the caller treats failure as ledger corruption.
func (e *Entry) RecordWithdrawal(value uint64) error {
	if e.WithdrawalCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	if value > e.CumulativeValue {
		return errors.New("registry: withdrawal value exceeds recorded cumulative value")
	}
	e.CumulativeValue -= value
	e.WithdrawalCount++
	return nil
}

// UndoWithdrawal reverses RecordWithdrawal during a rollback.
func (e *Entry) UndoWithdrawal(value uint64) {
	e.CumulativeValue += value
	e.WithdrawalCount--
}
