// Package storage persists point-in-time vault state snapshots as JSON files
// in the application data directory. Snapshots are an operator artifact for
// monitoring and post-incident reconciliation; the ledger itself never reads
// them back into live state.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/halvard/vault-core/internal/models"
)

// LedgerView is the read-only slice of the vault the snapshot captures.
type LedgerView interface {
	SupportedAssets() []models.AssetID
	AssetInfo(asset models.AssetID) (models.AssetInfo, error)
	TotalNormalizedValue() uint64
	Caps() (aggregate, withdrawal uint64)
	IsPaused() bool
}

// AssetSnapshot is the persisted form of one registry entry.
type AssetSnapshot struct {
	ID              string `json:"id"`
	Decimals        uint8  `json:"decimals"`
	Status          string `json:"status"`
	CumulativeValue uint64 `json:"cumulative_value"`
	DepositCount    uint64 `json:"deposit_count"`
	WithdrawalCount uint64 `json:"withdrawal_count"`
}

// Snapshot is the structure of the snapshot file.
type Snapshot struct {
	AggregateValue uint64          `json:"aggregate_value"`
	AggregateCap   uint64          `json:"aggregate_cap"`
	WithdrawalCap  uint64          `json:"withdrawal_cap"`
	Paused         bool            `json:"paused"`
	Assets         []AssetSnapshot `json:"assets"`
	CreatedAt      int64           `json:"created_at"`
}

// ResolveDir expands a leading "~" and creates the directory.
func ResolveDir(dir string) (string, error) {
	if strings.HasPrefix(dir, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(homeDir, strings.TrimPrefix(dir, "~"))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	return dir, nil
}

// SnapshotFilePath returns the path of the snapshot file inside dir.
func SnapshotFilePath(dir string) (string, error) {
	resolved, err := ResolveDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolved, "vault_snapshot.json"), nil
}

// Capture builds a snapshot from the current ledger state.
func Capture(view LedgerView) (*Snapshot, error) {
	aggregateCap, withdrawalCap := view.Caps()
	snap := &Snapshot{
		AggregateValue: view.TotalNormalizedValue(),
		AggregateCap:   aggregateCap,
		WithdrawalCap:  withdrawalCap,
		Paused:         view.IsPaused(),
		CreatedAt:      time.Now().Unix(),
	}

	for _, id := range view.SupportedAssets() {
		info, err := view.AssetInfo(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", id, err)
		}
		snap.Assets = append(snap.Assets, AssetSnapshot{
			ID:              string(info.ID),
			Decimals:        info.Decimals,
			Status:          info.Status.String(),
			CumulativeValue: info.CumulativeValue,
			DepositCount:    info.DepositCount,
			WithdrawalCount: info.WithdrawalCount,
		})
	}

	return snap, nil
}

// Save captures the ledger state and writes it to the snapshot file.
func Save(dir string, view LedgerView) error {
	filePath, err := SnapshotFilePath(dir)
	if err != nil {
		return err
	}

	snap, err := Capture(view)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// Load reads the snapshot file, or returns nil if none exists yet.
func Load(dir string) (*Snapshot, error) {
	filePath, err := SnapshotFilePath(dir)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
		return nil, nil
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(fileData, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}
