package models

import (
	"time"

	"github.com/holiman/uint256"
)

// Address identifies a principal (user, recipient, or the vault itself).
type Address string

// ZeroAddress is the null address; operations reject it as a recipient.
const ZeroAddress Address = ""

// AssetID identifies a registered asset.
type AssetID string

// NativeAsset is the reserved identifier for the chain's base currency.
// It is pre-registered at 18 decimals and cannot be registered as a token.
const NativeAsset AssetID = "NATIVE"

// AssetStatus controls whether an asset accepts new deposits.
// Paused never blocks withdrawals.
type AssetStatus uint8

const (
	AssetActive AssetStatus = iota
	AssetPaused
)

// String prints the asset status as lower-case text for logs and views.
func (s AssetStatus) String() string {
	switch s {
	case AssetActive:
		return "active"
	case AssetPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// RoundData is a single price oracle round as reported by the feed.
type RoundData struct {
	RoundID         uint64
	Price           int64 // 8-decimal fixed point
	UpdatedAt       time.Time
	AnsweredInRound uint64
}

// AssetInfo is the read-only view of a registry entry.
type AssetInfo struct {
	ID              AssetID
	Supported       bool
	Decimals        uint8
	Status          AssetStatus
	CumulativeValue uint64 // net normalized value attributed to this asset
	DepositCount    uint64
	WithdrawalCount uint64
}

// BalanceView pairs an asset with a user's raw balance in it.
type BalanceView struct {
	Asset   AssetID
	Balance *uint256.Int
}
